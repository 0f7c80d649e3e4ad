// Package testutil 提供测试用的内存数据库和数据构造函数
package testutil

import (
	"ai_learn_backend/internal/model"
	"ai_learn_backend/pkg/database"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每个测试一个独立的内存 SQLite 库，开启外键
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 单连接保证内存库在测试期间一直存在
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func SeedUser(t testing.TB, db *gorm.DB, username string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{Username: username, Password: "x", Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func SeedCourse(t testing.TB, db *gorm.DB, title, slug string) *model.Course {
	t.Helper()
	course := &model.Course{Title: title, Slug: slug}
	require.NoError(t, db.Create(course).Error)
	return course
}

func SeedTopic(t testing.TB, db *gorm.DB, courseID uint, title, slug string, order int) *model.Topic {
	t.Helper()
	topic := &model.Topic{CourseID: courseID, Title: title, Slug: slug, Order: order}
	require.NoError(t, db.Create(topic).Error)
	return topic
}

func SeedLesson(t testing.TB, db *gorm.DB, topicID uint, title string, order int) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{TopicID: topicID, Title: title, Order: order}
	require.NoError(t, db.Create(lesson).Error)
	return lesson
}

// SeedQuestion 创建题目及选项，correct 为正确选项的下标，-1 表示没有正确选项
func SeedQuestion(t testing.TB, db *gorm.DB, lessonID uint, text string, points int, choices []string, correct int) *model.Question {
	t.Helper()
	q := &model.Question{LessonID: lessonID, Text: text, QType: model.MultipleChoice, Points: points}
	for i, c := range choices {
		q.Choices = append(q.Choices, model.Choice{Text: c, IsCorrect: i == correct})
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

// SeedLessonTree 创建 课程 -> 主题 -> 课时 的最小结构
func SeedLessonTree(t testing.TB, db *gorm.DB, slug string) (*model.Course, *model.Topic, *model.Lesson) {
	t.Helper()
	course := SeedCourse(t, db, "Course "+slug, slug)
	topic := SeedTopic(t, db, course.ID, "Basics", "basics", 0)
	lesson := SeedLesson(t, db, topic.ID, "Variables", 1)
	return course, topic, lesson
}
