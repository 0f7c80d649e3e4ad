package service

import (
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/repository"
	"context"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{ProgressRepo: progressRepo}
}

type ProgressSummary struct {
	Items          []model.UserProgress `json:"items"`
	CompletedCount int                  `json:"completedCount"`
	TotalScore     int                  `json:"totalScore"`
}

// ListForUser 最近作答的课时排在前面
func (s *ProgressService) ListForUser(ctx context.Context, userID uint) (*ProgressSummary, error) {
	items, err := s.ProgressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &ProgressSummary{Items: items}
	for _, p := range items {
		if p.Completed {
			summary.CompletedCount++
		}
		summary.TotalScore += p.Score
	}
	return summary, nil
}
