package gateway

import "time"

// DefaultBaseURL is the hosted word-problem backend.
const DefaultBaseURL = "https://word-problem-be.vercel.app/api"

// Config configures the HTTP gateway.
type Config struct {
	BaseURL string
	// Timeout bounds a single HTTP request. Default: 15s.
	Timeout time.Duration
	Retry   RetryConfig
}

// RetryConfig configures retries of read-only calls.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 15 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     4 * time.Second,
			Multiplier:  2.0,
		},
	}
}
