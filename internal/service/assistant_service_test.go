package service

import (
	"ai_learn_backend/internal/config"
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/repository"
	"ai_learn_backend/internal/testutil"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	texts   []string
	err     error
	lastMax int
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string, opts GenerateOptions) ([]string, error) {
	g.lastMax = opts.MaxLength
	if g.err != nil {
		return nil, g.err
	}
	return g.texts, nil
}

func assistantConfig() config.AssistantConfig {
	return config.AssistantConfig{Model: "gpt2", MaxLength: 100, TimeoutSeconds: 5, HistoryRetentionDays: 30}
}

func TestAskCleansReplyAndRecordsHistory(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewAIQARepository(db)
	gen := &fakeGenerator{texts: []string{"  Hello\nworld \n"}}
	svc := NewAssistantService(gen, repo, assistantConfig())

	reply := svc.Ask(context.Background(), 7, "Hello")
	require.True(t, reply.OK())
	assert.Equal(t, "Hello world", reply.Text)
	assert.Equal(t, 100, gen.lastMax)

	history, err := svc.History(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Hello", history[0].Question)
	assert.Equal(t, model.QASourceModel, history[0].Source)
}

func TestAskGeneratorFailure(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewAIQARepository(db)
	svc := NewAssistantService(&fakeGenerator{err: errors.New("boom")}, repo, assistantConfig())

	reply := svc.Ask(context.Background(), 0, "Hello")
	assert.False(t, reply.OK())
	assert.Empty(t, reply.Text)
	assert.EqualError(t, reply.Err, "boom")

	history, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.QASourceError, history[0].Source)
	assert.Equal(t, "boom", history[0].Answer)
}

func TestUpdateSettings(t *testing.T) {
	gen := &fakeGenerator{texts: []string{"ok"}}
	svc := NewAssistantService(gen, nil, assistantConfig())

	next := assistantConfig()
	next.MaxLength = 42
	svc.UpdateSettings(next)

	assert.Equal(t, 42, svc.Info().MaxLength)
	reply := svc.Ask(context.Background(), 0, "hi")
	require.True(t, reply.OK())
	assert.Equal(t, 42, gen.lastMax)
}

func TestPruneHistory(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewAIQARepository(db)
	svc := NewAssistantService(&fakeGenerator{}, repo, assistantConfig())
	ctx := context.Background()

	old := &model.AIQAHistory{UserID: 1, Question: "old", Answer: "a", CreatedAt: time.Now().AddDate(0, 0, -31)}
	recent := &model.AIQAHistory{UserID: 1, Question: "new", Answer: "a"}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, recent))

	require.NoError(t, svc.PruneHistory(ctx))

	history, err := svc.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "new", history[0].Question)
}
