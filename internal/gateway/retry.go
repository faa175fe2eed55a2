package gateway

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/storymath/internal/problem"
)

// RetryGateway retries transient failures of read-only calls with
// exponential backoff and jitter. SubmitAnswer is passed through once.
type RetryGateway struct {
	inner  Gateway
	config RetryConfig
}

// WithRetry wraps g with retry logic for reads.
func WithRetry(g Gateway, cfg RetryConfig) Gateway {
	return &RetryGateway{inner: g, config: cfg}
}

func (r *RetryGateway) ListProblems(ctx context.Context) ([]problem.Problem, error) {
	return retry(ctx, r, func() ([]problem.Problem, error) {
		return r.inner.ListProblems(ctx)
	})
}

func (r *RetryGateway) GetProgress(ctx context.Context, userID string) (*problem.ProgressStats, error) {
	return retry(ctx, r, func() (*problem.ProgressStats, error) {
		return r.inner.GetProgress(ctx, userID)
	})
}

// SubmitAnswer is never retried: a retry after a lost response could
// grade the same answer twice.
func (r *RetryGateway) SubmitAnswer(ctx context.Context, sub Submission) (*problem.SubmissionResult, error) {
	return r.inner.SubmitAnswer(ctx, sub)
}

func (r *RetryGateway) GetExplanation(ctx context.Context, problemID string) (*problem.DetailedExplanation, error) {
	return retry(ctx, r, func() (*problem.DetailedExplanation, error) {
		return r.inner.GetExplanation(ctx, problemID)
	})
}

func retry[T any](ctx context.Context, r *RetryGateway, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := max(r.config.MaxAttempts, 1)
	for attempt := range attempts {
		out, err := call()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}
	return zero, lastErr
}

// shouldRetry reports whether err is worth another attempt. Rejections
// are final; so are client-side 4xx statuses and context errors.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rej *RejectedError
	if errors.As(err, &rej) {
		return false
	}
	var unavail *UnavailableError
	if errors.As(err, &unavail) {
		return unavail.Status == 0 || unavail.Status >= 500 || unavail.Status == 429
	}
	return false
}

func (r *RetryGateway) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
