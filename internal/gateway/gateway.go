// Package gateway is the client side of the word-problem backend: listing
// problems, reading progress, grading answers and fetching explanations.
package gateway

import (
	"context"

	"github.com/abhisek/storymath/internal/problem"
)

// Gateway is the set of remote calls the quiz session depends on.
type Gateway interface {
	// ListProblems returns the problem catalog.
	ListProblems(ctx context.Context) ([]problem.Problem, error)

	// GetProgress returns the learner's current stats.
	GetProgress(ctx context.Context, userID string) (*problem.ProgressStats, error)

	// SubmitAnswer sends an answer for grading.
	SubmitAnswer(ctx context.Context, sub Submission) (*problem.SubmissionResult, error)

	// GetExplanation returns hints and related concepts for a problem.
	GetExplanation(ctx context.Context, problemID string) (*problem.DetailedExplanation, error)
}

// Submission is the body of a grading request.
type Submission struct {
	ProblemID  string `json:"problemId"`
	UserAnswer string `json:"userAnswer"`
	UserID     string `json:"userId"`
	// TimeTaken is in whole seconds.
	TimeTaken int `json:"timeTaken"`
}

// Endpoint names used for logging and the call journal.
const (
	EndpointProblems = "/problems"
	EndpointProgress = "/progress"
	EndpointSubmit   = "/submit"
	EndpointExplain  = "/explain"
)

type contextKey string

const requestIDKey contextKey = "gateway_request_id"

// WithRequestID attaches a correlation id that is sent as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom extracts the correlation id from ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
