package repository

import (
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	err := r.DB.WithContext(ctx).Create(quiz).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrQuizExists
	}
	return err
}

func (r *QuizRepository) ExistsForLesson(ctx context.Context, lessonID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Quiz{}).Where("lesson_id = ?", lessonID).Count(&count).Error
	return count > 0, err
}

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) WithTx(tx *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: tx}
}

// ListByLesson 按 id 顺序返回课时下的题目及选项
func (r *QuestionRepository) ListByLesson(ctx context.Context, lessonID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.WithContext(ctx).
		Preload("Choices", orderByID).
		Where("lesson_id = ?", lessonID).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountByLesson(ctx context.Context, lessonID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("lesson_id = ?", lessonID).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).Preload("Choices", orderByID).First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return &q, err
}

// Create 题目和选项一起写入
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) CreateChoice(ctx context.Context, c *model.Choice) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *QuestionRepository) DeleteChoice(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Choice{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrChoiceNotFound
	}
	return nil
}
