package session

import (
	"strings"
	"time"

	"github.com/abhisek/storymath/internal/gateway"
	"github.com/abhisek/storymath/internal/problem"
	"github.com/abhisek/storymath/internal/visual"
)

// LoadRequest asks for the problem catalog.
type LoadRequest struct{}

// SubmitRequest asks for an answer to be graded.
type SubmitRequest struct {
	Epoch      int
	Submission gateway.Submission
}

// ExplainRequest asks for the detailed explanation of a graded problem.
type ExplainRequest struct {
	Epoch     int
	ProblemID string
}

// BeginLoad takes the busy flag for a catalog load. Returns nil when busy.
func (s *State) BeginLoad() *LoadRequest {
	if s.Busy() {
		return nil
	}
	s.acquire(OpLoad)
	return &LoadRequest{}
}

// BeginRetryLoad reloads the catalog when it is empty and idle.
func (s *State) BeginRetryLoad() *LoadRequest {
	if s.View != ViewCatalog || len(s.Problems) > 0 {
		return nil
	}
	return s.BeginLoad()
}

// CompleteLoad applies a catalog load outcome and releases the busy flag.
func (s *State) CompleteLoad(req *LoadRequest, problems []problem.Problem, err error) {
	if req == nil {
		return
	}
	s.release()
	s.LoadAttempted = true
	if err != nil {
		s.Notice = gateway.Notice(err, NoticeLoadFailed)
		return
	}
	s.Problems = problems
}

// Select opens the problem with id from the loaded catalog. It resets the
// draft answer, result and explanation, and starts the answer clock.
func (s *State) Select(id string, now time.Time) bool {
	if s.View != ViewCatalog {
		return false
	}
	p, ok := problem.Find(s.Problems, id)
	if !ok {
		return false
	}

	s.epoch++
	s.View = ViewProblem
	s.Selected = &p
	s.Visual = visual.Derive(p)
	s.Answer = ""
	s.TimeTaken = 0
	s.Result = nil
	s.Explanation = nil
	s.Notice = ""
	s.StartedAt = now
	return true
}

// SetAnswer updates the draft answer while it is editable.
func (s *State) SetAnswer(text string) {
	if s.Stage() != StageAnswering || s.Busy() {
		return
	}
	s.Answer = text
}

// BeginSubmit takes the busy flag and builds the grading request. Returns
// nil when the answer is blank, the session is busy, or nothing is being
// answered.
func (s *State) BeginSubmit(now time.Time) *SubmitRequest {
	if !s.CanSubmit() {
		return nil
	}
	s.acquire(OpSubmit)

	return &SubmitRequest{
		Epoch: s.epoch,
		Submission: gateway.Submission{
			ProblemID:  s.Selected.ID,
			UserAnswer: strings.TrimSpace(s.Answer),
			UserID:     s.UserID,
			TimeTaken:  elapsedSeconds(s.StartedAt, now),
		},
	}
}

// CompleteSubmit releases the busy flag and, if the request is still
// current, applies the grading result or the failure notice.
func (s *State) CompleteSubmit(req *SubmitRequest, res *problem.SubmissionResult, err error) {
	if req == nil {
		return
	}
	s.release()
	if req.Epoch != s.epoch {
		return
	}
	if err != nil {
		s.Notice = gateway.Notice(err, NoticeSubmitFailed)
		return
	}
	s.Result = res
	s.TimeTaken = req.Submission.TimeTaken
}

// BeginExplain takes the busy flag for a detailed explanation fetch.
// Returns nil unless a result is shown without an explanation and the
// session is idle.
func (s *State) BeginExplain() *ExplainRequest {
	if !s.CanExplain() {
		return nil
	}
	s.acquire(OpExplain)
	return &ExplainRequest{Epoch: s.epoch, ProblemID: s.Selected.ID}
}

// CompleteExplain releases the busy flag and attaches the explanation if
// the request is still current.
func (s *State) CompleteExplain(req *ExplainRequest, exp *problem.DetailedExplanation, err error) {
	if req == nil {
		return
	}
	s.release()
	if req.Epoch != s.epoch {
		return
	}
	if err != nil {
		s.Notice = gateway.Notice(err, NoticeExplainFailed)
		return
	}
	s.Explanation = exp
}

// ReturnToCatalog leaves the problem view, dropping the selection and
// everything attached to it. It reports whether the view changed, in which
// case the caller should refresh progress. An in-flight call keeps the busy
// flag until it completes; its response is then discarded.
func (s *State) ReturnToCatalog() bool {
	if s.View != ViewProblem {
		return false
	}
	s.epoch++
	s.View = ViewCatalog
	s.Selected = nil
	s.Visual = visual.Plan{}
	s.Answer = ""
	s.TimeTaken = 0
	s.Result = nil
	s.Explanation = nil
	s.Notice = ""
	return true
}

// ApplyProgress replaces the stats wholesale. A failure only sets a notice
// when nothing more specific is already showing.
func (s *State) ApplyProgress(stats *problem.ProgressStats, err error) {
	if err != nil {
		if s.Notice == "" {
			s.Notice = gateway.Notice(err, NoticeProgressFailed)
		}
		return
	}
	if stats != nil {
		s.Stats = stats
	}
}

// elapsedSeconds is the whole seconds from start to now, floored, never
// negative.
func elapsedSeconds(start, now time.Time) int {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
