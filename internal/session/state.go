// Package session holds the quiz session state machine. It performs no I/O:
// Begin* transitions return a request for the caller to execute against the
// gateway, and Complete* transitions fold the outcome back in.
package session

import (
	"fmt"
	"time"

	"github.com/abhisek/storymath/internal/problem"
	"github.com/abhisek/storymath/internal/visual"
)

// View is the screen the session is projected onto.
type View int

const (
	ViewCatalog View = iota
	ViewProblem
)

// Stage is the derived interaction state.
type Stage int

const (
	StageCatalog          Stage = iota // Browsing the problem list
	StageAnswering                     // Problem selected, no result yet
	StageGraded                        // Result shown
	StageExplanationShown              // Result plus detailed explanation
)

func (s Stage) String() string {
	switch s {
	case StageCatalog:
		return "catalog"
	case StageAnswering:
		return "answering"
	case StageGraded:
		return "graded"
	case StageExplanationShown:
		return "explanation"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Op identifies the call currently holding the busy flag.
type Op int

const (
	OpNone Op = iota
	OpLoad
	OpSubmit
	OpExplain
)

// Learner-facing notices for failures without a server message.
const (
	NoticeLoadFailed     = "Failed to load problems. Make sure the backend server is running!"
	NoticeSubmitFailed   = "Failed to submit answer. Check if the server is running!"
	NoticeExplainFailed  = "Could not load the detailed explanation. Try again!"
	NoticeProgressFailed = "Could not refresh your progress."
)

// State is one running quiz session.
type State struct {
	// UserID correlates progress and submissions for this run only.
	UserID string

	View View

	// Problems is the loaded catalog.
	Problems []problem.Problem
	// LoadAttempted is true once any catalog load has finished.
	LoadAttempted bool

	// Stats is the latest server-side progress, nil until fetched.
	Stats *problem.ProgressStats

	// Selected is the problem being worked on (nil in the catalog).
	Selected *problem.Problem
	// Visual is derived from Selected on selection.
	Visual visual.Plan

	// Answer is the learner's draft answer text.
	Answer string
	// StartedAt is when the problem was selected.
	StartedAt time.Time
	// TimeTaken is the elapsed seconds sent with the last accepted submission.
	TimeTaken int

	Result      *problem.SubmissionResult
	Explanation *problem.DetailedExplanation

	// Notice is a user-visible message from the last failure.
	Notice string

	pending Op
	// epoch changes whenever the selection changes; responses issued
	// under an older epoch are stale.
	epoch int
}

// New creates an empty session for userID.
func New(userID string) *State {
	return &State{UserID: userID, View: ViewCatalog}
}

// NewUserID returns the session identifier for a client started at now.
func NewUserID(now time.Time) string {
	return fmt.Sprintf("user_%d", now.UnixMilli())
}

// Stage derives the interaction state from the fields.
func (s *State) Stage() Stage {
	switch {
	case s.View == ViewCatalog || s.Selected == nil:
		return StageCatalog
	case s.Result == nil:
		return StageAnswering
	case s.Explanation != nil:
		return StageExplanationShown
	default:
		return StageGraded
	}
}

// Busy reports whether a call holding the busy flag is in flight.
func (s *State) Busy() bool {
	return s.pending != OpNone
}

// Pending returns the call holding the busy flag.
func (s *State) Pending() Op {
	return s.pending
}

// CanSubmit reports whether Submit would issue a request.
func (s *State) CanSubmit() bool {
	return s.Stage() == StageAnswering && !s.Busy() && hasText(s.Answer)
}

// CanExplain reports whether Explain would issue a request.
func (s *State) CanExplain() bool {
	return s.Stage() == StageGraded && !s.Busy()
}

// DismissNotice clears the current notice.
func (s *State) DismissNotice() {
	s.Notice = ""
}

func (s *State) acquire(op Op) {
	s.pending = op
}

func (s *State) release() {
	s.pending = OpNone
}
