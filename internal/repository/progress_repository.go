package repository

import (
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

func (r *ProgressRepository) Find(ctx context.Context, userID, lessonID uint) (*model.UserProgress, error) {
	var p model.UserProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProgressNotFound
	}
	return &p, err
}

// Upsert 依赖 (user_id, lesson_id) 唯一索引，已存在时覆盖分数和完成状态
func (r *ProgressRepository) Upsert(ctx context.Context, userID, lessonID uint, score int, completed bool) (*model.UserProgress, error) {
	p := &model.UserProgress{
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   completed,
		Score:       score,
		LastAttempt: time.Now(),
	}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "completed", "last_attempt"}),
	}).Create(p).Error
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, userID, lessonID)
}

func (r *ProgressRepository) CountForUserLesson(ctx context.Context, userID, lessonID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.UserProgress{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID uint) ([]model.UserProgress, error) {
	var list []model.UserProgress
	err := r.DB.WithContext(ctx).
		Preload("Lesson.Topic.Course").
		Where("user_id = ?", userID).
		Order("last_attempt DESC, id DESC").
		Find(&list).Error
	return list, err
}

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) WithTx(tx *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: tx}
}

func lessonQuestionIDs(db *gorm.DB, lessonID uint) *gorm.DB {
	return db.Model(&model.Question{}).Select("id").Where("lesson_id = ?", lessonID)
}

// DeleteForLesson 删除用户在该课时所有题目下的作答
func (r *AttemptRepository) DeleteForLesson(ctx context.Context, userID, lessonID uint) (int64, error) {
	db := r.DB.WithContext(ctx)
	res := db.Where("user_id = ? AND question_id IN (?)", userID, lessonQuestionIDs(db, lessonID)).
		Delete(&model.Attempt{})
	return res.RowsAffected, res.Error
}

func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

// ListForLesson 按创建时间倒序
func (r *AttemptRepository) ListForLesson(ctx context.Context, userID, lessonID uint) ([]model.Attempt, error) {
	db := r.DB.WithContext(ctx)
	var attempts []model.Attempt
	err := db.
		Preload("Question").
		Preload("SelectedChoice").
		Where("user_id = ? AND question_id IN (?)", userID, lessonQuestionIDs(db, lessonID)).
		Order("created_at DESC, id DESC").
		Find(&attempts).Error
	return attempts, err
}
