package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/storymath/internal/store"
)

// LoggingProvider records every request in the call journal and the log.
type LoggingProvider struct {
	inner   Provider
	journal store.CallRepo
	logger  *zap.Logger
}

// WithLogging wraps p. journal may be nil.
func WithLogging(p Provider, journal store.CallRepo, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, journal: journal, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	rec := store.CallRecord{
		Kind:      store.KindLLM,
		Target:    l.inner.ModelID(),
		Method:    PurposeFrom(ctx),
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		rec.Target = resp.Model
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
	}

	fields := []zap.Field{
		zap.String("model", rec.Target),
		zap.String("purpose", rec.Method),
		zap.Duration("latency", latency),
		zap.Int("input_tokens", rec.InputTokens),
		zap.Int("output_tokens", rec.OutputTokens),
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
		l.logger.Warn("LLM request failed", append(fields, zap.Error(err))...)
	} else {
		l.logger.Debug("LLM request", fields...)
	}

	if l.journal != nil {
		if jErr := l.journal.AppendCall(context.WithoutCancel(ctx), rec); jErr != nil {
			l.logger.Warn("journal append failed", zap.Error(jErr))
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// Purpose labels recorded as the journal method of an LLM call.
const (
	PurposeDraftProblem = "draft-problem"
	PurposeUnlabelled   = "unlabelled"
)

type purposeKey struct{}

// WithPurpose sets the journal label for LLM calls made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnlabelled.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnlabelled
}
