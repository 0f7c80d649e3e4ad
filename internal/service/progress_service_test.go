package service

import (
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/repository"
	"ai_learn_backend/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// backdate 把某课时的最近作答时间提前，避免依赖两次提交之间的时钟精度
func backdate(t *testing.T, db *gorm.DB, userID, lessonID uint, d time.Duration) {
	t.Helper()
	require.NoError(t, db.Model(&model.UserProgress{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		UpdateColumn("last_attempt", time.Now().Add(-d)).Error)
}

func TestListForUserNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	_, topic, variables := testutil.SeedLessonTree(t, db, "python")
	loops := testutil.SeedLesson(t, db, topic.ID, "Loops", 2)
	q1 := testutil.SeedQuestion(t, db, variables.ID, "x = 1?", 1, []string{"yes", "no"}, 0)
	q2 := testutil.SeedQuestion(t, db, loops.ID, "for or while?", 3, []string{"both", "neither"}, 0)

	alice := testutil.SeedUser(t, db, "alice", model.Student)
	bob := testutil.SeedUser(t, db, "bob", model.Student)

	quiz := newQuizService(db)
	progress := NewProgressService(repository.NewProgressRepository(db))

	_, err := quiz.Submit(ctx, alice.ID, variables.ID, QuizSubmission{Answers: map[uint]uint{q1.ID: q1.Choices[0].ID}})
	require.NoError(t, err)
	backdate(t, db, alice.ID, variables.ID, time.Hour)

	_, err = quiz.Submit(ctx, alice.ID, loops.ID, QuizSubmission{Answers: map[uint]uint{q2.ID: q2.Choices[0].ID}})
	require.NoError(t, err)

	summary, err := progress.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, summary.Items, 2)
	assert.Equal(t, loops.ID, summary.Items[0].LessonID)
	assert.Equal(t, 3, summary.Items[0].Score)
	require.NotNil(t, summary.Items[0].Lesson)
	assert.Equal(t, "Loops", summary.Items[0].Lesson.Title)
	assert.Equal(t, variables.ID, summary.Items[1].LessonID)
	assert.Equal(t, 2, summary.CompletedCount)
	assert.Equal(t, 4, summary.TotalScore)

	// 重新作答（答错）后该课时排到最前，总分随之变化
	backdate(t, db, alice.ID, loops.ID, 30*time.Minute)
	_, err = quiz.Submit(ctx, alice.ID, variables.ID, QuizSubmission{Answers: map[uint]uint{q1.ID: q1.Choices[1].ID}})
	require.NoError(t, err)

	summary, err = progress.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, summary.Items, 2)
	assert.Equal(t, variables.ID, summary.Items[0].LessonID)
	assert.Equal(t, 0, summary.Items[0].Score)
	assert.Equal(t, 3, summary.TotalScore)

	empty, err := progress.ListForUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Zero(t, empty.CompletedCount)
}
