package service

import (
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/testutil"
	"ai_learn_backend/internal/util"
	"ai_learn_backend/pkg/cache"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
courses:
  - title: Intro to Go
    description: first steps
    topics:
      - title: Basics
        order: 1
        lessons:
          - title: Variables
            content: var x int
            quiz: Variables quiz
            questions:
              - text: "2+2?"
                points: 2
                choices:
                  - text: "3"
                  - text: "4"
                    correct: true
              - text: Go is compiled
                qtype: tf
                choices:
                  - text: "True"
                    correct: true
                  - text: "False"
`

func TestImportCatalog(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newCatalogService(db, cache.NewMemoryCache())
	ctx := context.Background()

	stats, err := svc.ImportCatalog(ctx, strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Courses)
	assert.Equal(t, 1, stats.Topics)
	assert.Equal(t, 1, stats.Lessons)
	assert.Equal(t, 2, stats.Questions)
	assert.Empty(t, stats.Skipped)

	var course model.Course
	require.NoError(t, db.Where("slug = ?", "intro-to-go").First(&course).Error)

	var questions []model.Question
	require.NoError(t, db.Preload("Choices").Order("id").Find(&questions).Error)
	require.Len(t, questions, 2)
	assert.Equal(t, 2, questions[0].Points)
	assert.Equal(t, "4", questions[0].CorrectChoice().Text)
	assert.Equal(t, model.TrueFalse, questions[1].QType)

	var quizzes int64
	db.Model(&model.Quiz{}).Count(&quizzes)
	assert.EqualValues(t, 1, quizzes)

	// 再次导入时已存在的课程被跳过
	stats, err = svc.ImportCatalog(ctx, strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	assert.Zero(t, stats.Courses)
	assert.Equal(t, []string{"Intro to Go"}, stats.Skipped)
}

func TestImportCatalogRejectsInvalidQuestion(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newCatalogService(db, nil)

	body := `
courses:
  - title: Broken
    topics:
      - title: T
        lessons:
          - title: L
            questions:
              - text: pick one
                choices:
                  - text: a
                    correct: true
                  - text: b
                    correct: true
`
	_, err := svc.ImportCatalog(context.Background(), strings.NewReader(body))
	assert.ErrorIs(t, err, util.ErrMultipleCorrectChoices)
}

func TestParseCatalogUnknownField(t *testing.T) {
	_, err := ParseCatalog(strings.NewReader("courses:\n  - title: X\n    color: red\n"))
	assert.ErrorIs(t, err, util.ErrInvalidCatalog)

	file, err := ParseCatalog(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, file.Courses)
}

func TestImportCatalogRejectsBadSlug(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newCatalogService(db, nil)

	_, err := svc.ImportCatalog(context.Background(), strings.NewReader("courses:\n  - title: Go\n    slug: Not A Slug\n"))
	assert.ErrorIs(t, err, util.ErrInvalidSlug)
}
