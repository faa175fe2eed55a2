package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/storymath/internal/store"
)

// NewProvider builds the configured provider wrapped as
// caller → retry → logging → base, so every attempt is journaled.
func NewProvider(ctx context.Context, cfg Config, journal store.CallRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, journal, logger), cfg.Retry, logger), nil
}
