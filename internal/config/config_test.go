package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/storymath/internal/gateway"
)

// isolate points config discovery and .env loading at empty temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, k := range []string{
		"STORYMATH_API_URL", "STORYMATH_API_TIMEOUT", "STORYMATH_DB",
		"STORYMATH_NO_JOURNAL", "STORYMATH_LOG_FILE", "STORYMATH_LOG_LEVEL",
		"STORYMATH_LLM_PROVIDER",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, gateway.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Journal.Disabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadExplicitMissingFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "xdg", "storymath", "config.yaml")
	writeFile(t, path, `
api:
  base_url: http://localhost:3000/api
  timeout: 5s
  retry:
    max_attempts: 1
journal:
  disabled: true
log:
  level: debug
llm:
  provider: openai
  openai:
    model: gpt-4.1-mini
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 1, cfg.API.Retry.MaxAttempts)
	assert.True(t, cfg.Journal.Disabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "claude-haiku", cfg.LLM.Anthropic.Model, "unset fields keep defaults")
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "api: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.yaml")
	writeFile(t, path, "api:\n  base_url: http://from-file/api\n")
	t.Setenv("STORYMATH_API_URL", "http://from-env/api")
	t.Setenv("STORYMATH_API_TIMEOUT", "2s")
	t.Setenv("STORYMATH_NO_JOURNAL", "true")
	t.Setenv("STORYMATH_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env/api", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Journal.Disabled)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestEnvBadValues(t *testing.T) {
	isolate(t)

	t.Setenv("STORYMATH_API_TIMEOUT", "soon")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("STORYMATH_API_TIMEOUT", "")
	t.Setenv("STORYMATH_NO_JOURNAL", "maybe")
	_, err = Load("")
	require.Error(t, err)
}

func TestDotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "STORYMATH_DB=/tmp/from-dotenv.db\nSTORYMATH_LOG_LEVEL=error\n")
	t.Setenv("STORYMATH_LOG_LEVEL", "debug")
	// isolate set it to ""; godotenv only fills variables that are absent.
	require.NoError(t, os.Unsetenv("STORYMATH_DB"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.Journal.Path)
	assert.Equal(t, "debug", cfg.Log.Level, "real environment wins over .env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"relative url", func(c *Config) { c.API.BaseURL = "/api" }, ErrInvalidBaseURL},
		{"ftp url", func(c *Config) { c.API.BaseURL = "ftp://host/api" }, ErrInvalidBaseURL},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, ErrInvalidTimeout},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, ErrInvalidLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestGatewayConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://x/api"
	cfg.API.Retry.MaxAttempts = 5

	gw := cfg.Gateway()
	assert.Equal(t, "http://x/api", gw.BaseURL)
	assert.Equal(t, 5, gw.Retry.MaxAttempts)
	assert.Equal(t, 2.0, gw.Retry.Multiplier)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "storymath", "config.yaml"), DefaultPath())
}
