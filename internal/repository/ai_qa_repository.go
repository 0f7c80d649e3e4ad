package repository

import (
	"ai_learn_backend/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type AIQARepository struct {
	DB *gorm.DB
}

func NewAIQARepository(db *gorm.DB) *AIQARepository {
	return &AIQARepository{DB: db}
}

func (r *AIQARepository) Create(ctx context.Context, h *model.AIQAHistory) error {
	return r.DB.WithContext(ctx).Create(h).Error
}

func (r *AIQARepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.AIQAHistory{})
	return res.RowsAffected, res.Error
}

func (r *AIQARepository) ListByUser(ctx context.Context, userID uint, limit int) ([]model.AIQAHistory, error) {
	var list []model.AIQAHistory
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
