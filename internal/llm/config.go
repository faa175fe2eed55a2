package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures a provider. It is the "llm" section of
// the config file.
type Config struct {
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `yaml:"timeout"`
}

type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// RetryConfig configures retries of transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns the built-in defaults. No provider is selected
// until a key is configured or discovered.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// envOverrides lists STORYMATH_* variables and the field each one sets.
func (c *Config) envOverrides() map[string]*string {
	return map[string]*string{
		"STORYMATH_LLM_PROVIDER":       &c.Provider,
		"STORYMATH_ANTHROPIC_API_KEY":  &c.Anthropic.APIKey,
		"STORYMATH_ANTHROPIC_MODEL":    &c.Anthropic.Model,
		"STORYMATH_OPENAI_API_KEY":     &c.OpenAI.APIKey,
		"STORYMATH_OPENAI_MODEL":       &c.OpenAI.Model,
		"STORYMATH_OPENAI_BASE_URL":    &c.OpenAI.BaseURL,
		"STORYMATH_GEMINI_API_KEY":     &c.Gemini.APIKey,
		"STORYMATH_GEMINI_MODEL":       &c.Gemini.Model,
		"STORYMATH_OPENROUTER_API_KEY": &c.OpenRouter.APIKey,
		"STORYMATH_OPENROUTER_MODEL":   &c.OpenRouter.Model,
	}
}

// ApplyEnv overrides fields from STORYMATH_* environment variables.
func (c *Config) ApplyEnv() {
	for name, field := range c.envOverrides() {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
}

// ConfigFromEnv is DefaultConfig with environment overrides applied.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// Discover fills in a provider from the vendors' standard API key
// variables (Gemini, OpenAI, Anthropic, then OpenRouter) when none is
// selected yet. It reports whether a provider is selected afterwards.
func (c *Config) Discover() bool {
	if c.Provider != "" {
		return true
	}
	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"GEMINI_API_KEY", ProviderGemini, &c.Gemini.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &c.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &c.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &c.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			c.Provider = p.provider
			if *p.key == "" {
				*p.key = k
			}
			return true
		}
	}
	return false
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "STORYMATH_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "STORYMATH_OPENAI_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "STORYMATH_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "STORYMATH_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	case "":
		return fmt.Errorf("no LLM provider configured: set STORYMATH_LLM_PROVIDER or a vendor API key")
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
