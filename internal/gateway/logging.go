package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/storymath/internal/problem"
	"github.com/abhisek/storymath/internal/store"
)

// LoggingGateway records every call in the call journal and the log.
type LoggingGateway struct {
	inner   Gateway
	journal store.CallRepo
	logger  *zap.Logger
}

// WithLogging wraps g with call logging. journal may be nil.
func WithLogging(g Gateway, journal store.CallRepo, logger *zap.Logger) Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingGateway{inner: g, journal: journal, logger: logger}
}

func (l *LoggingGateway) ListProblems(ctx context.Context) ([]problem.Problem, error) {
	ctx, done := l.begin(ctx, http.MethodGet, EndpointProblems, "")
	out, err := l.inner.ListProblems(ctx)
	done(err, zap.Int("problems", len(out)))
	return out, err
}

func (l *LoggingGateway) GetProgress(ctx context.Context, userID string) (*problem.ProgressStats, error) {
	ctx, done := l.begin(ctx, http.MethodGet, EndpointProgress, userID)
	out, err := l.inner.GetProgress(ctx, userID)
	done(err)
	return out, err
}

func (l *LoggingGateway) SubmitAnswer(ctx context.Context, sub Submission) (*problem.SubmissionResult, error) {
	ctx, done := l.begin(ctx, http.MethodPost, EndpointSubmit, sub.UserID)
	out, err := l.inner.SubmitAnswer(ctx, sub)
	fields := []zap.Field{zap.String("problem_id", sub.ProblemID), zap.Int("time_taken", sub.TimeTaken)}
	if out != nil {
		fields = append(fields, zap.Bool("correct", out.IsCorrect))
	}
	done(err, fields...)
	return out, err
}

func (l *LoggingGateway) GetExplanation(ctx context.Context, problemID string) (*problem.DetailedExplanation, error) {
	ctx, done := l.begin(ctx, http.MethodGet, EndpointExplain, "")
	out, err := l.inner.GetExplanation(ctx, problemID)
	done(err, zap.String("problem_id", problemID))
	return out, err
}

// begin stamps a request id onto ctx and returns a func that records
// the outcome once the call returns.
func (l *LoggingGateway) begin(ctx context.Context, method, endpoint, userID string) (context.Context, func(error, ...zap.Field)) {
	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
		ctx = WithRequestID(ctx, requestID)
	}
	start := time.Now()

	return ctx, func(err error, extra ...zap.Field) {
		latency := time.Since(start)
		status := http.StatusOK
		if err != nil {
			status = StatusOf(err)
		}

		fields := append([]zap.Field{
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		}, extra...)
		if err != nil {
			l.logger.Warn("gateway call failed", append(fields, zap.Error(err))...)
		} else {
			l.logger.Debug("gateway call", fields...)
		}

		if l.journal == nil {
			return
		}
		rec := store.CallRecord{
			Kind:      store.KindGateway,
			Target:    endpoint,
			Method:    method,
			Status:    status,
			LatencyMs: latency.Milliseconds(),
			Success:   err == nil,
			UserID:    userID,
			RequestID: requestID,
		}
		if err != nil {
			rec.ErrorMessage = err.Error()
		}
		// The journal is diagnostic only; a failed append never fails the call.
		if jErr := l.journal.AppendCall(context.WithoutCancel(ctx), rec); jErr != nil {
			l.logger.Warn("journal append failed", zap.Error(jErr))
		}
	}
}
