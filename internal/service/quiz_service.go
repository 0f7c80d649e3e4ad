package service

import (
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/repository"
	"ai_learn_backend/internal/util"
	"ai_learn_backend/pkg/logger"
	"ai_learn_backend/pkg/monitoring"
	"ai_learn_backend/pkg/tracing"
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	LessonRepo   *repository.LessonRepository
	QuestionRepo *repository.QuestionRepository
	ProgressRepo *repository.ProgressRepository
	AttemptRepo  *repository.AttemptRepository
	DB           *gorm.DB
}

func NewQuizService(
	lessonRepo *repository.LessonRepository,
	questionRepo *repository.QuestionRepository,
	progressRepo *repository.ProgressRepository,
	attemptRepo *repository.AttemptRepository,
	db *gorm.DB,
) *QuizService {
	return &QuizService{
		LessonRepo:   lessonRepo,
		QuestionRepo: questionRepo,
		ProgressRepo: progressRepo,
		AttemptRepo:  attemptRepo,
		DB:           db,
	}
}

// QuizSubmission questionID -> choiceID，未作答的题目不出现
type QuizSubmission struct {
	Answers map[uint]uint `json:"answers"`
}

type QuizOutcome struct {
	LessonID    uint                `json:"lessonId"`
	LessonTitle string              `json:"lessonTitle"`
	Score       int                 `json:"score"`
	MaxScore    int                 `json:"maxScore"`
	Total       int                 `json:"total"`
	Answered    int                 `json:"answered"`
	Correct     int                 `json:"correct"`
	Progress    *model.UserProgress `json:"progress"`
}

func (o *QuizOutcome) Summary() string {
	return fmt.Sprintf("You scored %d/%d on %s!", o.Score, o.Total, o.LessonTitle)
}

type ChoiceView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuestionView struct {
	ID      uint               `json:"id"`
	Text    string             `json:"text"`
	QType   model.QuestionType `json:"qtype"`
	Points  int                `json:"points"`
	Choices []ChoiceView       `json:"choices"`
}

type QuizView struct {
	Lesson    *model.Lesson  `json:"lesson"`
	Questions []QuestionView `json:"questions"`
}

type QuizResultView struct {
	Lesson         *model.Lesson       `json:"lesson"`
	Attempts       []model.Attempt     `json:"attempts"`
	TotalQuestions int                 `json:"totalQuestions"`
	CorrectAnswers int                 `json:"correctAnswers"`
	Progress       *model.UserProgress `json:"progress,omitempty"`
}

// ListQuizLessons 返回所有带题目的课时
func (s *QuizService) ListQuizLessons(ctx context.Context) ([]model.Lesson, error) {
	return s.LessonRepo.ListWithQuestions(ctx)
}

// QuizForLesson 返回作答用的题目，不暴露选项正误
func (s *QuizService) QuizForLesson(ctx context.Context, lessonID uint) (*QuizView, error) {
	lesson, err := s.LessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	questions, err := s.QuestionRepo.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	views := make([]QuestionView, len(questions))
	for i, q := range questions {
		choices := make([]ChoiceView, len(q.Choices))
		for j, c := range q.Choices {
			choices[j] = ChoiceView{ID: c.ID, Text: c.Text}
		}
		views[i] = QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			QType:   q.QType,
			Points:  q.Points,
			Choices: choices,
		}
	}

	return &QuizView{Lesson: lesson, Questions: views}, nil
}

// Submit 评分并保存作答。整个过程在一个事务中完成：
// 清除旧作答 -> 逐题评分写入 Attempt -> upsert UserProgress。
// 选项不属于对应题目时返回 ErrChoiceNotFound，事务整体回滚。
func (s *QuizService) Submit(ctx context.Context, userID, lessonID uint, sub QuizSubmission) (*QuizOutcome, error) {
	ctx, span := tracing.Tracer.Start(ctx, "quiz.submit")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("lesson.id", int64(lessonID)),
	)

	lesson, err := s.LessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		monitoring.QuizSubmissions.WithLabelValues("rejected").Inc()
		return nil, err
	}

	outcome := &QuizOutcome{LessonID: lesson.ID, LessonTitle: lesson.Title}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questions := s.QuestionRepo.WithTx(tx)
		attempts := s.AttemptRepo.WithTx(tx)
		progress := s.ProgressRepo.WithTx(tx)

		qs, err := questions.ListByLesson(ctx, lessonID)
		if err != nil {
			return err
		}

		if _, err := attempts.DeleteForLesson(ctx, userID, lessonID); err != nil {
			return err
		}

		outcome.Total = len(qs)
		for i := range qs {
			q := &qs[i]
			outcome.MaxScore += q.Points

			choiceID, ok := sub.Answers[q.ID]
			if !ok || choiceID == 0 {
				continue
			}

			choice := findChoice(q.Choices, choiceID)
			if choice == nil {
				return fmt.Errorf("question %d, choice %d: %w", q.ID, choiceID, util.ErrChoiceNotFound)
			}

			if choice.IsCorrect {
				outcome.Score += q.Points
				outcome.Correct++
			}
			outcome.Answered++

			selected := choice.ID
			if err := attempts.Create(ctx, &model.Attempt{
				UserID:           userID,
				QuestionID:       q.ID,
				SelectedChoiceID: &selected,
				IsCorrect:        choice.IsCorrect,
			}); err != nil {
				return err
			}
		}

		p, err := progress.Upsert(ctx, userID, lessonID, outcome.Score, true)
		if err != nil {
			return err
		}
		outcome.Progress = p
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, util.ErrChoiceNotFound) {
			monitoring.QuizSubmissions.WithLabelValues("rejected").Inc()
		} else {
			monitoring.QuizSubmissions.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	monitoring.QuizSubmissions.WithLabelValues("graded").Inc()
	if outcome.MaxScore > 0 {
		monitoring.QuizScoreRatio.Observe(float64(outcome.Score) / float64(outcome.MaxScore))
	}
	span.SetAttributes(attribute.Int("quiz.score", outcome.Score), attribute.Int("quiz.total", outcome.Total))

	logger.Log.Info("quiz graded",
		zap.Uint("user_id", userID),
		zap.Uint("lesson_id", lessonID),
		zap.Int("score", outcome.Score),
		zap.Int("total", outcome.Total),
		zap.Int("answered", outcome.Answered),
	)

	return outcome, nil
}

// findChoice 只在该题目的选项中查找
func findChoice(choices []model.Choice, id uint) *model.Choice {
	for i := range choices {
		if choices[i].ID == id {
			return &choices[i]
		}
	}
	return nil
}

// Result 返回用户在该课时最近一次提交的作答
func (s *QuizService) Result(ctx context.Context, userID, lessonID uint) (*QuizResultView, error) {
	lesson, err := s.LessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.AttemptRepo.ListForLesson(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}

	total, err := s.QuestionRepo.CountByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	correct := 0
	for _, a := range attempts {
		if a.IsCorrect {
			correct++
		}
	}

	view := &QuizResultView{
		Lesson:         lesson,
		Attempts:       attempts,
		TotalQuestions: int(total),
		CorrectAnswers: correct,
	}

	p, err := s.ProgressRepo.Find(ctx, userID, lessonID)
	switch {
	case err == nil:
		view.Progress = p
	case !errors.Is(err, util.ErrProgressNotFound):
		return nil, err
	}

	return view, nil
}
