package app

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/storymath/internal/gateway"
	"github.com/abhisek/storymath/internal/problem"
	"github.com/abhisek/storymath/internal/session"
)

// Gateway results. Each carries the request it answers so the session can
// tell current responses from stale ones.
type problemsLoadedMsg struct {
	req      *session.LoadRequest
	problems []problem.Problem
	err      error
}

type progressLoadedMsg struct {
	stats *problem.ProgressStats
	err   error
}

// submittedMsg also carries the progress refetched after a successful
// grade, so both land while the busy flag is still held.
type submittedMsg struct {
	req      *session.SubmitRequest
	result   *problem.SubmissionResult
	err      error
	stats    *problem.ProgressStats
	statsErr error
}

type explainedMsg struct {
	req *session.ExplainRequest
	exp *problem.DetailedExplanation
	err error
}

// requestCtx tags a gateway call with a fresh correlation id.
func (m AppModel) requestCtx() context.Context {
	return gateway.WithRequestID(m.ctx, uuid.NewString())
}

func (m AppModel) loadProblems(req *session.LoadRequest) tea.Cmd {
	if req == nil {
		return nil
	}
	gw, ctx := m.gateway, m.requestCtx()
	return tea.Batch(m.spinner.Tick(), func() tea.Msg {
		problems, err := gw.ListProblems(ctx)
		return problemsLoadedMsg{req: req, problems: problems, err: err}
	})
}

// fetchProgress refreshes stats. It never takes the busy flag: the call is
// read-only and its result only replaces Stats.
func (m AppModel) fetchProgress() tea.Cmd {
	gw, ctx, userID := m.gateway, m.requestCtx(), m.state.UserID
	return func() tea.Msg {
		stats, err := gw.GetProgress(ctx, userID)
		return progressLoadedMsg{stats: stats, err: err}
	}
}

func (m AppModel) submit(req *session.SubmitRequest) tea.Cmd {
	if req == nil {
		return nil
	}
	gw, ctx := m.gateway, m.requestCtx()
	return tea.Batch(m.spinner.Tick(), func() tea.Msg {
		res, err := gw.SubmitAnswer(ctx, req.Submission)
		msg := submittedMsg{req: req, result: res, err: err}
		if err == nil {
			msg.stats, msg.statsErr = gw.GetProgress(ctx, req.Submission.UserID)
		}
		return msg
	})
}

func (m AppModel) explain(req *session.ExplainRequest) tea.Cmd {
	if req == nil {
		return nil
	}
	gw, ctx := m.gateway, m.requestCtx()
	return tea.Batch(m.spinner.Tick(), func() tea.Msg {
		exp, err := gw.GetExplanation(ctx, req.ProblemID)
		return explainedMsg{req: req, exp: exp, err: err}
	})
}
