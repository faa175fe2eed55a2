package gateway

import (
	"context"
	"sync"

	"github.com/abhisek/storymath/internal/problem"
)

// MockGateway is a deterministic Gateway for tests. Each call returns the
// configured value or error and is recorded.
type MockGateway struct {
	mu sync.Mutex

	Problems    []problem.Problem
	ProblemsErr error

	Stats    *problem.ProgressStats
	StatsErr error

	Result    *problem.SubmissionResult
	SubmitErr error

	Explanation *problem.DetailedExplanation
	ExplainErr  error

	// Calls lists "METHOD path" for every call in order.
	Calls       []string
	Submissions []Submission
}

var _ Gateway = (*MockGateway)(nil)

func (m *MockGateway) ListProblems(_ context.Context) ([]problem.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "GET "+EndpointProblems)
	if m.ProblemsErr != nil {
		return nil, m.ProblemsErr
	}
	return append([]problem.Problem(nil), m.Problems...), nil
}

func (m *MockGateway) GetProgress(_ context.Context, userID string) (*problem.ProgressStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "GET "+EndpointProgress+"/"+userID)
	if m.StatsErr != nil {
		return nil, m.StatsErr
	}
	if m.Stats == nil {
		return &problem.ProgressStats{}, nil
	}
	stats := *m.Stats
	return &stats, nil
}

func (m *MockGateway) SubmitAnswer(_ context.Context, sub Submission) (*problem.SubmissionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "POST "+EndpointSubmit)
	m.Submissions = append(m.Submissions, sub)
	if m.SubmitErr != nil {
		return nil, m.SubmitErr
	}
	if m.Result == nil {
		return &problem.SubmissionResult{}, nil
	}
	res := *m.Result
	return &res, nil
}

func (m *MockGateway) GetExplanation(_ context.Context, problemID string) (*problem.DetailedExplanation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "GET "+EndpointExplain+"/"+problemID)
	if m.ExplainErr != nil {
		return nil, m.ExplainErr
	}
	if m.Explanation == nil {
		return &problem.DetailedExplanation{}, nil
	}
	exp := *m.Explanation
	return &exp, nil
}

// CallCount returns how many recorded calls equal call ("GET /problems").
func (m *MockGateway) CallCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == call {
			n++
		}
	}
	return n
}

// SetSubmitErr replaces the submit error between calls.
func (m *MockGateway) SetSubmitErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubmitErr = err
}
