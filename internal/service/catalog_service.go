package service

import (
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/repository"
	"ai_learn_backend/internal/util"
	"ai_learn_backend/pkg/cache"
	"ai_learn_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

type CatalogService struct {
	CourseRepo   *repository.CourseRepository
	TopicRepo    *repository.TopicRepository
	LessonRepo   *repository.LessonRepository
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	Cache        cache.Cache
	CacheTTL     time.Duration
}

func NewCatalogService(
	courseRepo *repository.CourseRepository,
	topicRepo *repository.TopicRepository,
	lessonRepo *repository.LessonRepository,
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	c cache.Cache,
	ttl time.Duration,
) *CatalogService {
	return &CatalogService{
		CourseRepo:   courseRepo,
		TopicRepo:    topicRepo,
		LessonRepo:   lessonRepo,
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		Cache:        c,
		CacheTTL:     ttl,
	}
}

type CourseDetailView struct {
	Course         *model.Course  `json:"course"`
	Courses        []model.Course `json:"courses"`
	SelectedLesson *model.Lesson  `json:"selectedLesson,omitempty"`
}

type LessonDetailView struct {
	Lesson *model.Lesson `json:"lesson"`
	Quiz   *model.Quiz   `json:"quiz,omitempty"`
}

type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Slug        string `json:"slug" binding:"omitempty,max=220,slug"`
	Description string `json:"description"`
}

type CreateTopicRequest struct {
	CourseID uint   `json:"courseId" binding:"required"`
	Title    string `json:"title" binding:"required,max=200"`
	Order    int    `json:"order"`
	Slug     string `json:"slug" binding:"omitempty,max=220,slug"`
}

type CreateLessonRequest struct {
	TopicID     uint   `json:"topicId" binding:"required"`
	Title       string `json:"title" binding:"required,max=200"`
	Content     string `json:"content"`
	Order       *int   `json:"order"`
	CodeExample string `json:"codeExample"`
}

type CreateQuizRequest struct {
	LessonID uint   `json:"lessonId" binding:"required"`
	Title    string `json:"title" binding:"max=200"`
}

type ChoiceInput struct {
	Text      string `json:"text" binding:"required,max=500"`
	IsCorrect bool   `json:"isCorrect"`
}

type CreateQuestionRequest struct {
	LessonID uint               `json:"lessonId" binding:"required"`
	Text     string             `json:"text" binding:"required"`
	QType    model.QuestionType `json:"qtype"`
	Points   *int               `json:"points" binding:"omitempty,min=0"`
	Choices  []ChoiceInput      `json:"choices" binding:"dive"`
}

// ListCourses 课程列表走缓存，写操作时失效
func (s *CatalogService) ListCourses(ctx context.Context) ([]model.Course, error) {
	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, util.CatalogCacheKey); err == nil {
			var courses []model.Course
			if err := json.Unmarshal(data, &courses); err == nil {
				return courses, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			logger.Log.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	courses, err := s.CourseRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if data, err := json.Marshal(courses); err == nil {
			if err := s.Cache.Set(ctx, util.CatalogCacheKey, data, s.CacheTTL); err != nil {
				logger.Log.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return courses, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, util.CatalogCacheKey); err != nil {
		logger.Log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

// CourseDetail 返回课程、其主题和课时；lessonID 非 nil 时该课时必须属于此课程
func (s *CatalogService) CourseDetail(ctx context.Context, slug string, lessonID *uint) (*CourseDetailView, error) {
	course, err := s.CourseRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	courses, err := s.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	view := &CourseDetailView{Course: course, Courses: courses}
	if lessonID != nil {
		lesson, err := s.LessonRepo.FindInCourse(ctx, *lessonID, course.ID)
		if err != nil {
			return nil, err
		}
		view.SelectedLesson = lesson
	}
	return view, nil
}

func (s *CatalogService) TopicDetail(ctx context.Context, id uint) (*model.Topic, error) {
	return s.TopicRepo.FindByID(ctx, id)
}

func (s *CatalogService) LessonDetail(ctx context.Context, id uint) (*LessonDetailView, error) {
	lesson, err := s.LessonRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LessonDetailView{Lesson: lesson, Quiz: lesson.Quiz}, nil
}

// resolveSlug 未提供 slug 时由标题生成并截断到 derivedLen
func resolveSlug(slug, title string, derivedLen int) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug != "" {
		if !util.IsSlug(slug) || len(slug) > model.SlugMaxLen {
			return "", fmt.Errorf("%q: %w", slug, util.ErrInvalidSlug)
		}
		return slug, nil
	}

	slug = util.Slugify(title, derivedLen)
	if slug == "" {
		return "", util.ErrInvalidSlug
	}
	return slug, nil
}

func (s *CatalogService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*model.Course, error) {
	slug, err := resolveSlug(req.Slug, req.Title, model.SlugMaxLen)
	if err != nil {
		return nil, err
	}

	exists, err := s.CourseRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("course %q: %w", slug, util.ErrSlugTaken)
	}

	course := &model.Course{
		Title:       req.Title,
		Slug:        slug,
		Description: req.Description,
	}
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return course, nil
}

func (s *CatalogService) DeleteCourse(ctx context.Context, id uint) error {
	if err := s.CourseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) CreateTopic(ctx context.Context, req CreateTopicRequest) (*model.Topic, error) {
	if _, err := s.CourseRepo.FindByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	slug, err := resolveSlug(req.Slug, req.Title, model.TopicDerivedSlugLen)
	if err != nil {
		return nil, err
	}

	exists, err := s.TopicRepo.SlugExists(ctx, req.CourseID, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("topic %q in course %d: %w", slug, req.CourseID, util.ErrSlugTaken)
	}

	topic := &model.Topic{
		CourseID: req.CourseID,
		Title:    req.Title,
		Order:    req.Order,
		Slug:     slug,
	}
	if err := s.TopicRepo.Create(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *CatalogService) CreateLesson(ctx context.Context, req CreateLessonRequest) (*model.Lesson, error) {
	if _, err := s.TopicRepo.FindByID(ctx, req.TopicID); err != nil {
		return nil, err
	}

	order := 1
	if req.Order != nil {
		order = *req.Order
	}

	lesson := &model.Lesson{
		TopicID:     req.TopicID,
		Title:       req.Title,
		Content:     req.Content,
		Order:       order,
		CodeExample: req.CodeExample,
	}
	if err := s.LessonRepo.Create(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CatalogService) CreateQuiz(ctx context.Context, req CreateQuizRequest) (*model.Quiz, error) {
	if _, err := s.LessonRepo.FindByID(ctx, req.LessonID); err != nil {
		return nil, err
	}

	exists, err := s.QuizRepo.ExistsForLesson(ctx, req.LessonID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrQuizExists
	}

	quiz := &model.Quiz{LessonID: req.LessonID, Title: req.Title}
	if err := s.QuizRepo.Create(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// CreateQuestion 单选题和判断题最多一个正确选项
func (s *CatalogService) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*model.Question, error) {
	qtype := req.QType
	if qtype == "" {
		qtype = model.MultipleChoice
	}
	if !qtype.Valid() {
		return nil, fmt.Errorf("%q: %w", qtype, util.ErrInvalidQuestionType)
	}

	if _, err := s.LessonRepo.FindByID(ctx, req.LessonID); err != nil {
		return nil, err
	}

	points := 1
	if req.Points != nil {
		points = *req.Points
	}

	correct := 0
	choices := make([]model.Choice, len(req.Choices))
	for i, c := range req.Choices {
		if c.IsCorrect {
			correct++
		}
		choices[i] = model.Choice{Text: c.Text, IsCorrect: c.IsCorrect}
	}
	if qtype.SingleAnswer() && correct > 1 {
		return nil, util.ErrMultipleCorrectChoices
	}

	question := &model.Question{
		LessonID: req.LessonID,
		Text:     req.Text,
		QType:    qtype,
		Points:   points,
		Choices:  choices,
	}
	if err := s.QuestionRepo.Create(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *CatalogService) AddChoice(ctx context.Context, questionID uint, in ChoiceInput) (*model.Choice, error) {
	question, err := s.QuestionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	if in.IsCorrect && question.QType.SingleAnswer() && question.CorrectChoice() != nil {
		return nil, util.ErrMultipleCorrectChoices
	}

	choice := &model.Choice{
		QuestionID: question.ID,
		Text:       in.Text,
		IsCorrect:  in.IsCorrect,
	}
	if err := s.QuestionRepo.CreateChoice(ctx, choice); err != nil {
		return nil, err
	}
	return choice, nil
}

func (s *CatalogService) DeleteChoice(ctx context.Context, id uint) error {
	return s.QuestionRepo.DeleteChoice(ctx, id)
}
