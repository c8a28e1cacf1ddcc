package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("LLM_TIMEOUT", "")
	t.Setenv("MEDIA_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 15*time.Second, cfg.Media.Timeout)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "tripcraft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
llm:
  provider: openai
  api_key: from-file
  timeout: 30s
media:
  backend_url: http://media.local/
  cache_ttl: 1h
redis:
  addr: localhost:6379
`), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("LLM_TIMEOUT", "45")
	t.Setenv("MEDIA_BACKEND_URL", "")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "http://media.local", cfg.Media.BackendURL)
	assert.Equal(t, time.Hour, cfg.Media.CacheTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MEDIA_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}
