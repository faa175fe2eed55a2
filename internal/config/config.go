// Package config loads storymath settings from a YAML file, an optional
// .env file and STORYMATH_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/storymath/internal/gateway"
	"github.com/abhisek/storymath/internal/llm"
)

// Config is the full client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Journal JournalConfig `yaml:"journal"`
	Log     LogConfig     `yaml:"log"`
	LLM     llm.Config    `yaml:"llm"`
}

// APIConfig points at the word-problem backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Retry   RetryConfig   `yaml:"retry"`
}

// RetryConfig configures retries of read-only backend calls.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
}

// JournalConfig controls the local call journal.
type JournalConfig struct {
	// Path is the SQLite file. Empty means the default data dir.
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// LogConfig controls the log file.
type LogConfig struct {
	// Path is the log file. "-" discards logs.
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

var (
	ErrInvalidBaseURL = errors.New("api.base_url must be an absolute http(s) URL")
	ErrInvalidTimeout = errors.New("api.timeout must be positive")
	ErrInvalidLevel   = errors.New("log.level is not a valid level")
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	gw := gateway.DefaultConfig()
	return Config{
		API: APIConfig{
			BaseURL: gw.BaseURL,
			Timeout: gw.Timeout,
			Retry: RetryConfig{
				MaxAttempts: gw.Retry.MaxAttempts,
				InitialWait: gw.Retry.InitialWait,
				MaxWait:     gw.Retry.MaxWait,
			},
		},
		Log: LogConfig{Level: "info"},
		LLM: llm.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/storymath/config.yaml, falling back
// to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "storymath", "config.yaml")
}

// Load reads the config file at path (DefaultPath when empty), then .env
// from the working directory, then the environment. A missing file at the
// default path is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("STORYMATH_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("STORYMATH_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STORYMATH_API_TIMEOUT=%q: %w", v, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("STORYMATH_DB"); v != "" {
		c.Journal.Path = v
	}
	if v := os.Getenv("STORYMATH_NO_JOURNAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STORYMATH_NO_JOURNAL=%q: %w", v, err)
		}
		c.Journal.Disabled = b
	}
	if v := os.Getenv("STORYMATH_LOG_FILE"); v != "" {
		c.Log.Path = v
	}
	if v := os.Getenv("STORYMATH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	c.LLM.ApplyEnv()
	return nil
}

// Validate checks the settings the play loop depends on. LLM settings are
// validated only by commands that use them.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Log.Level)
	}
	return nil
}

// Gateway converts the api section into gateway settings.
func (c Config) Gateway() gateway.Config {
	retry := gateway.DefaultConfig().Retry
	retry.MaxAttempts = c.API.Retry.MaxAttempts
	retry.InitialWait = c.API.Retry.InitialWait
	retry.MaxWait = c.API.Retry.MaxWait
	return gateway.Config{BaseURL: c.API.BaseURL, Timeout: c.API.Timeout, Retry: retry}
}
