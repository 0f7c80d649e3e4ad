package configwatcher

import (
	"ai_learn_backend/internal/config"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string, maxLength int) {
	body := fmt.Sprintf("database:\n  driver: sqlite\nassistant:\n  max_length: %d\n", maxLength)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, 100)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 1)
	require.NoError(t, Watch(ctx, dir, func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}))

	writeConfig(t, dir, 42)

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 42, cfg.Assistant.MaxLength)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}
