package service

import (
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/repository"
	"ai_learn_backend/internal/testutil"
	"ai_learn_backend/internal/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQuizService(db *gorm.DB) *QuizService {
	return NewQuizService(
		repository.NewLessonRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewProgressRepository(db),
		repository.NewAttemptRepository(db),
		db,
	)
}

type quizFixture struct {
	db     *gorm.DB
	svc    *QuizService
	user   *model.User
	lesson *model.Lesson
	q1, q2 *model.Question
}

// newQuizFixture 课时下两道 1 分的题，正确选项分别是 "4" 和 "Paris"
func newQuizFixture(t *testing.T) *quizFixture {
	db := testutil.NewDB(t)
	_, _, lesson := testutil.SeedLessonTree(t, db, "go")
	return &quizFixture{
		db:     db,
		svc:    newQuizService(db),
		user:   testutil.SeedUser(t, db, "alice", model.Student),
		lesson: lesson,
		q1:     testutil.SeedQuestion(t, db, lesson.ID, "2+2?", 1, []string{"3", "4"}, 1),
		q2:     testutil.SeedQuestion(t, db, lesson.ID, "Capital of France?", 1, []string{"Paris", "Rome"}, 0),
	}
}

func (f *quizFixture) attempts(t *testing.T) []model.Attempt {
	var list []model.Attempt
	require.NoError(t, f.db.Where("user_id = ?", f.user.ID).Order("question_id").Find(&list).Error)
	return list
}

func TestSubmitAllCorrect(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	out, err := f.svc.Submit(ctx, f.user.ID, f.lesson.ID, QuizSubmission{Answers: map[uint]uint{
		f.q1.ID: f.q1.Choices[1].ID,
		f.q2.ID: f.q2.Choices[0].ID,
	}})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Score)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, 2, out.Correct)
	assert.Equal(t, 2, out.Answered)
	assert.Equal(t, "You scored 2/2 on Variables!", out.Summary())

	require.NotNil(t, out.Progress)
	assert.True(t, out.Progress.Completed)
	assert.Equal(t, 2, out.Progress.Score)

	attempts := f.attempts(t)
	require.Len(t, attempts, 2)
	for _, a := range attempts {
		assert.True(t, a.IsCorrect)
		assert.NotNil(t, a.SelectedChoiceID)
	}
}

func TestSubmitUnansweredQuestionCreatesNoAttempt(t *testing.T) {
	f := newQuizFixture(t)

	out, err := f.svc.Submit(context.Background(), f.user.ID, f.lesson.ID, QuizSubmission{Answers: map[uint]uint{
		f.q1.ID: f.q1.Choices[1].ID,
	}})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, 1, out.Answered)

	attempts := f.attempts(t)
	require.Len(t, attempts, 1)
	assert.Equal(t, f.q1.ID, attempts[0].QuestionID)
}

func TestSubmitAllWrong(t *testing.T) {
	f := newQuizFixture(t)

	out, err := f.svc.Submit(context.Background(), f.user.ID, f.lesson.ID, QuizSubmission{Answers: map[uint]uint{
		f.q1.ID: f.q1.Choices[0].ID,
		f.q2.ID: f.q2.Choices[1].ID,
	}})
	require.NoError(t, err)

	assert.Equal(t, 0, out.Score)
	assert.Equal(t, 0, out.Correct)
	assert.True(t, out.Progress.Completed)
	assert.Equal(t, 0, out.Progress.Score)

	for _, a := range f.attempts(t) {
		assert.False(t, a.IsCorrect)
	}
}

func TestSubmitEmptyStillRecordsProgress(t *testing.T) {
	f := newQuizFixture(t)

	out, err := f.svc.Submit(context.Background(), f.user.ID, f.lesson.ID, QuizSubmission{})
	require.NoError(t, err)

	assert.Equal(t, 0, out.Score)
	assert.Empty(t, f.attempts(t))
	assert.True(t, out.Progress.Completed)
}

func TestResubmitReplacesAttemptsAndKeepsSingleProgress(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.user.ID, f.lesson.ID, QuizSubmission{Answers: map[uint]uint{
		f.q1.ID: f.q1.Choices[1].ID,
		f.q2.ID: f.q2.Choices[0].ID,
	}})
	require.NoError(t, err)

	out, err := f.svc.Submit(ctx, f.user.ID, f.lesson.ID, QuizSubmission{Answers: map[uint]uint{
		f.q1.ID: f.q1.Choices[0].ID,
	}})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Score)

	count, err := f.svc.ProgressRepo.CountForUserLesson(ctx, f.user.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	p, err := f.svc.ProgressRepo.Find(ctx, f.user.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Score)
	assert.True(t, p.Completed)

	attempts := f.attempts(t)
	require.Len(t, attempts, 1)
	assert.False(t, attempts[0].IsCorrect)
}

func TestSubmitWeightsByPoints(t *testing.T) {
	f := newQuizFixture(t)
	heavy := testutil.SeedQuestion(t, f.db, f.lesson.ID, "Hard one", 3, []string{"a", "b"}, 0)

	out, err := f.svc.Submit(context.Background(), f.user.ID, f.lesson.ID, QuizSubmission{Answers: map[uint]uint{
		heavy.ID: heavy.Choices[0].ID,
	}})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Score)
	assert.Equal(t, 5, out.MaxScore)
	assert.Equal(t, 3, out.Total)
}

func TestSubmitChoiceFromOtherQuestionRollsBack(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, f.user.ID, f.lesson.ID, QuizSubmission{Answers: map[uint]uint{
		f.q1.ID: f.q1.Choices[1].ID,
		f.q2.ID: f.q2.Choices[0].ID,
	}})
	require.NoError(t, err)

	// q1 的作答用了 q2 的选项
	_, err = f.svc.Submit(ctx, f.user.ID, f.lesson.ID, QuizSubmission{Answers: map[uint]uint{
		f.q1.ID: f.q2.Choices[0].ID,
		f.q2.ID: f.q2.Choices[1].ID,
	}})
	require.ErrorIs(t, err, util.ErrChoiceNotFound)

	// 之前的作答和进度保持不变
	attempts := f.attempts(t)
	require.Len(t, attempts, 2)
	for _, a := range attempts {
		assert.True(t, a.IsCorrect)
	}

	p, err := f.svc.ProgressRepo.Find(ctx, f.user.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Score, p.Score)
}

func TestSubmitUnknownChoiceLeavesNoTrace(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.user.ID, f.lesson.ID, QuizSubmission{Answers: map[uint]uint{
		f.q1.ID: f.q1.Choices[1].ID,
		f.q2.ID: 9999,
	}})
	require.ErrorIs(t, err, util.ErrChoiceNotFound)

	assert.Empty(t, f.attempts(t))
	_, err = f.svc.ProgressRepo.Find(ctx, f.user.ID, f.lesson.ID)
	assert.ErrorIs(t, err, util.ErrProgressNotFound)
}

func TestSubmitIgnoresQuestionsOutsideLesson(t *testing.T) {
	f := newQuizFixture(t)
	other := testutil.SeedLesson(t, f.db, f.lesson.TopicID, "Loops", 2)
	foreign := testutil.SeedQuestion(t, f.db, other.ID, "Elsewhere", 1, []string{"x"}, 0)

	out, err := f.svc.Submit(context.Background(), f.user.ID, f.lesson.ID, QuizSubmission{Answers: map[uint]uint{
		foreign.ID: foreign.Choices[0].ID,
	}})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Score)
	assert.Empty(t, f.attempts(t))
}

func TestSubmitMissingLesson(t *testing.T) {
	f := newQuizFixture(t)

	_, err := f.svc.Submit(context.Background(), f.user.ID, 424242, QuizSubmission{})
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestResult(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.user.ID, f.lesson.ID, QuizSubmission{Answers: map[uint]uint{
		f.q1.ID: f.q1.Choices[1].ID,
		f.q2.ID: f.q2.Choices[1].ID,
	}})
	require.NoError(t, err)

	view, err := f.svc.Result(ctx, f.user.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalQuestions)
	assert.Equal(t, 1, view.CorrectAnswers)
	assert.Len(t, view.Attempts, 2)
	require.NotNil(t, view.Progress)
	assert.Equal(t, 1, view.Progress.Score)
	for _, a := range view.Attempts {
		require.NotNil(t, a.Question)
		require.NotNil(t, a.SelectedChoice)
	}
}

func TestResultBeforeAnySubmission(t *testing.T) {
	f := newQuizFixture(t)

	view, err := f.svc.Result(context.Background(), f.user.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Attempts)
	assert.Nil(t, view.Progress)
	assert.Equal(t, 2, view.TotalQuestions)
}

func TestQuizForLessonAndList(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	testutil.SeedLesson(t, f.db, f.lesson.TopicID, "No questions here", 2)

	view, err := f.svc.QuizForLesson(ctx, f.lesson.ID)
	require.NoError(t, err)
	require.Len(t, view.Questions, 2)
	assert.Equal(t, f.q1.ID, view.Questions[0].ID)
	assert.Len(t, view.Questions[0].Choices, 2)

	lessons, err := f.svc.ListQuizLessons(ctx)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, f.lesson.ID, lessons[0].ID)
}
