package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRejectsBadSpec(t *testing.T) {
	s := New(time.Second)
	err := s.Add("not a cron spec", "bad", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestJobRuns(t *testing.T) {
	s := New(time.Second)
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Add("@every 1s", "tick", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}))

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}
