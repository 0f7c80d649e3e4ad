package repository

import (
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.WithContext(ctx).Order("title ASC, id ASC").Find(&courses).Error
	return courses, err
}

// FindBySlug 加载课程及其有序的主题和课时
func (r *CourseRepository) FindBySlug(ctx context.Context, slug string) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).
		Preload("Topics", orderByPosition).
		Preload("Topics.Lessons", orderByPosition).
		Where("slug = ?", slug).
		First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	return &course, err
}

func (r *CourseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	return &course, err
}

func (r *CourseRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Course{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	err := r.DB.WithContext(ctx).Create(course).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrSlugTaken
	}
	return err
}

func (r *CourseRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Course{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrCourseNotFound
	}
	return nil
}

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) FindByID(ctx context.Context, id uint) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.WithContext(ctx).
		Preload("Course").
		Preload("Lessons", orderByPosition).
		First(&topic, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTopicNotFound
	}
	return &topic, err
}

func (r *TopicRepository) SlugExists(ctx context.Context, courseID uint, slug string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Topic{}).
		Where("course_id = ? AND slug = ?", courseID, slug).
		Count(&count).Error
	return count > 0, err
}

func (r *TopicRepository) Create(ctx context.Context, topic *model.Topic) error {
	err := r.DB.WithContext(ctx).Create(topic).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrSlugTaken
	}
	return err
}

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) FindByID(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).
		Preload("Topic.Course").
		Preload("Quiz").
		First(&lesson, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	return &lesson, err
}

// FindInCourse 仅当课时属于该课程时返回
func (r *LessonRepository) FindInCourse(ctx context.Context, lessonID, courseID uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).
		Joins("JOIN topics ON topics.id = lessons.topic_id").
		Where("lessons.id = ? AND topics.course_id = ?", lessonID, courseID).
		Preload("Quiz").
		First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	return &lesson, err
}

// ListWithQuestions 返回至少有一道题目的课时
func (r *LessonRepository) ListWithQuestions(ctx context.Context) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM questions WHERE questions.lesson_id = lessons.id)").
		Preload("Topic.Course").
		Order("topic_id ASC, sort_order ASC, id ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).Create(lesson).Error
}
