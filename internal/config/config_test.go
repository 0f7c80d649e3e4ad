package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
database:
  driver: sqlite
jwt:
  secret: dev
assistant:
  base_url: http://localhost:9000
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "ai_learn.db", cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 5*time.Minute, cfg.Cache.CatalogTTL())
	assert.Equal(t, "gpt2", cfg.Assistant.Model)
	assert.Equal(t, 100, cfg.Assistant.MaxLength)
	assert.Equal(t, 30*time.Second, cfg.Assistant.Timeout())
	assert.Equal(t, dir, cfg.ConfigDir)
	assert.Equal(t, "logs/app.log", cfg.Log.File)
	assert.True(t, cfg.Log.Console)
	assert.Equal(t, 50, cfg.Redis.PoolSize)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
	assert.Equal(t, []string{"/api/health", "/metrics"}, cfg.RateLimit.ExemptPaths)
}

func TestLoadConfigReleaseRequiresStrongSecret(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: short
`)

	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "JWT secret is too short")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database:  DatabaseConfig{Driver: "oracle"},
		Assistant: AssistantConfig{MaxLength: 10},
	}
	assert.ErrorContains(t, cfg.Validate(), "unsupported database driver")

	cfg.Database.Driver = "postgres"
	assert.NoError(t, cfg.Validate())

	cfg.Tracing.SampleRatio = 1.5
	assert.ErrorContains(t, cfg.Validate(), "sample_ratio")

	cfg.Tracing.SampleRatio = 0.5
	cfg.Assistant.MaxLength = 0
	assert.Error(t, cfg.Validate())
}
