package service

import (
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/util"
	"ai_learn_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// CatalogFile 课程导入文件格式
//
//	courses:
//	  - title: Go 入门
//	    topics:
//	      - title: 基础
//	        lessons:
//	          - title: 变量
//	            questions:
//	              - text: 2+2?
//	                choices:
//	                  - text: "4"
//	                    correct: true
type CatalogFile struct {
	Courses []CourseSeed `yaml:"courses"`
}

type CourseSeed struct {
	Title       string      `yaml:"title"`
	Slug        string      `yaml:"slug"`
	Description string      `yaml:"description"`
	Topics      []TopicSeed `yaml:"topics"`
}

type TopicSeed struct {
	Title   string       `yaml:"title"`
	Slug    string       `yaml:"slug"`
	Order   int          `yaml:"order"`
	Lessons []LessonSeed `yaml:"lessons"`
}

type LessonSeed struct {
	Title       string         `yaml:"title"`
	Content     string         `yaml:"content"`
	Order       *int           `yaml:"order"`
	CodeExample string         `yaml:"code_example"`
	Quiz        string         `yaml:"quiz"`
	Questions   []QuestionSeed `yaml:"questions"`
}

type QuestionSeed struct {
	Text    string             `yaml:"text"`
	QType   model.QuestionType `yaml:"qtype"`
	Points  *int               `yaml:"points"`
	Choices []ChoiceSeed       `yaml:"choices"`
}

type ChoiceSeed struct {
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct"`
}

type ImportStats struct {
	Courses   int      `json:"courses"`
	Topics    int      `json:"topics"`
	Lessons   int      `json:"lessons"`
	Questions int      `json:"questions"`
	Skipped   []string `json:"skipped"`
}

func ParseCatalog(r io.Reader) (*CatalogFile, error) {
	var file CatalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidCatalog, err)
	}
	return &file, nil
}

// ImportCatalog 按文件内容逐个创建课程，slug 已存在的课程整体跳过
// 单个课程内部出错时立即返回，已导入的课程保留
func (s *CatalogService) ImportCatalog(ctx context.Context, r io.Reader) (*ImportStats, error) {
	file, err := ParseCatalog(r)
	if err != nil {
		return nil, err
	}

	stats := &ImportStats{Skipped: []string{}}
	for _, cs := range file.Courses {
		course, err := s.CreateCourse(ctx, CreateCourseRequest{
			Title:       cs.Title,
			Slug:        cs.Slug,
			Description: cs.Description,
		})
		if errors.Is(err, util.ErrSlugTaken) {
			stats.Skipped = append(stats.Skipped, cs.Title)
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("course %q: %w", cs.Title, err)
		}
		stats.Courses++

		if err := s.importTopics(ctx, course.ID, cs.Topics, stats); err != nil {
			return stats, fmt.Errorf("course %q: %w", cs.Title, err)
		}
	}

	logger.Log.Info("catalog imported",
		zap.Int("courses", stats.Courses),
		zap.Int("lessons", stats.Lessons),
		zap.Int("questions", stats.Questions),
		zap.Strings("skipped", stats.Skipped))
	return stats, nil
}

func (s *CatalogService) importTopics(ctx context.Context, courseID uint, topics []TopicSeed, stats *ImportStats) error {
	for _, ts := range topics {
		topic, err := s.CreateTopic(ctx, CreateTopicRequest{
			CourseID: courseID,
			Title:    ts.Title,
			Order:    ts.Order,
			Slug:     ts.Slug,
		})
		if err != nil {
			return fmt.Errorf("topic %q: %w", ts.Title, err)
		}
		stats.Topics++

		for _, ls := range ts.Lessons {
			lesson, err := s.CreateLesson(ctx, CreateLessonRequest{
				TopicID:     topic.ID,
				Title:       ls.Title,
				Content:     ls.Content,
				Order:       ls.Order,
				CodeExample: ls.CodeExample,
			})
			if err != nil {
				return fmt.Errorf("lesson %q: %w", ls.Title, err)
			}
			stats.Lessons++

			if ls.Quiz != "" {
				if _, err := s.CreateQuiz(ctx, CreateQuizRequest{LessonID: lesson.ID, Title: ls.Quiz}); err != nil {
					return fmt.Errorf("quiz for %q: %w", ls.Title, err)
				}
			}

			for _, qs := range ls.Questions {
				choices := make([]ChoiceInput, len(qs.Choices))
				for i, c := range qs.Choices {
					choices[i] = ChoiceInput{Text: c.Text, IsCorrect: c.Correct}
				}
				if _, err := s.CreateQuestion(ctx, CreateQuestionRequest{
					LessonID: lesson.ID,
					Text:     qs.Text,
					QType:    qs.QType,
					Points:   qs.Points,
					Choices:  choices,
				}); err != nil {
					return fmt.Errorf("question %q: %w", qs.Text, err)
				}
				stats.Questions++
			}
		}
	}
	return nil
}
