package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/storymath/internal/gateway"
	"github.com/abhisek/storymath/internal/problem"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func catalog() []problem.Problem {
	return []problem.Problem{
		{
			ID:           "p1",
			Title:        "Apples",
			Story:        "Sam had 5 apples and ate 2.",
			Difficulty:   problem.DifficultyEasy,
			VisualType:   problem.VisualApples,
			Operation:    problem.OperationSubtraction,
			InitialCount: 5,
			RemoveCount:  2,
		},
		{
			ID:           "p2",
			Title:        "Cookies",
			Story:        "Mia baked 3 cookies and then 4 more.",
			Difficulty:   problem.DifficultyMedium,
			VisualType:   problem.VisualCookies,
			Operation:    problem.OperationAddition,
			InitialCount: 3,
			AddCount:     4,
		},
	}
}

// loaded returns a session with the catalog already loaded.
func loaded(t *testing.T) *State {
	t.Helper()
	s := New("user_1")
	req := s.BeginLoad()
	require.NotNil(t, req)
	s.CompleteLoad(req, catalog(), nil)
	require.False(t, s.Busy())
	return s
}

// graded returns a session showing a correct result for p1.
func graded(t *testing.T) *State {
	t.Helper()
	s := loaded(t)
	require.True(t, s.Select("p1", t0))
	s.SetAnswer("3")
	req := s.BeginSubmit(t0.Add(4 * time.Second))
	require.NotNil(t, req)
	s.CompleteSubmit(req, &problem.SubmissionResult{IsCorrect: true}, nil)
	require.Equal(t, StageGraded, s.Stage())
	return s
}

func TestNewUserID(t *testing.T) {
	now := time.UnixMilli(1767225600123)
	assert.Equal(t, "user_1767225600123", NewUserID(now))
}

func TestNewSessionStartsInCatalog(t *testing.T) {
	s := New("user_1")
	assert.Equal(t, StageCatalog, s.Stage())
	assert.False(t, s.Busy())
	assert.False(t, s.LoadAttempted)
	assert.Nil(t, s.Stats)
}

func TestLoad(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := New("u")
		req := s.BeginLoad()
		require.NotNil(t, req)
		assert.True(t, s.Busy())
		assert.Equal(t, OpLoad, s.Pending())

		s.CompleteLoad(req, catalog(), nil)
		assert.False(t, s.Busy())
		assert.True(t, s.LoadAttempted)
		assert.Len(t, s.Problems, 2)
		assert.Empty(t, s.Notice)
	})

	t.Run("failure sets the generic notice", func(t *testing.T) {
		s := New("u")
		req := s.BeginLoad()
		s.CompleteLoad(req, nil, &gateway.UnavailableError{Err: errors.New("dial tcp: refused")})
		assert.False(t, s.Busy())
		assert.True(t, s.LoadAttempted)
		assert.Empty(t, s.Problems)
		assert.Equal(t, NoticeLoadFailed, s.Notice)
	})

	t.Run("not while busy", func(t *testing.T) {
		s := New("u")
		require.NotNil(t, s.BeginLoad())
		assert.Nil(t, s.BeginLoad())
	})
}

func TestRetryLoad(t *testing.T) {
	t.Run("empty catalog reloads", func(t *testing.T) {
		s := New("u")
		s.CompleteLoad(s.BeginLoad(), nil, errors.New("down"))
		req := s.BeginRetryLoad()
		require.NotNil(t, req)
		s.CompleteLoad(req, catalog(), nil)
		assert.Len(t, s.Problems, 2)
	})

	t.Run("populated catalog is a no-op", func(t *testing.T) {
		s := loaded(t)
		assert.Nil(t, s.BeginRetryLoad())
		assert.False(t, s.Busy())
	})

	t.Run("no-op while loading", func(t *testing.T) {
		s := New("u")
		require.NotNil(t, s.BeginLoad())
		assert.Nil(t, s.BeginRetryLoad())
	})

	t.Run("no-op outside the catalog", func(t *testing.T) {
		s := loaded(t)
		require.True(t, s.Select("p1", t0))
		s.Problems = nil
		assert.Nil(t, s.BeginRetryLoad())
	})
}

func TestSelect(t *testing.T) {
	t.Run("unknown id is rejected", func(t *testing.T) {
		s := loaded(t)
		assert.False(t, s.Select("nope", t0))
		assert.Equal(t, StageCatalog, s.Stage())
		assert.Nil(t, s.Selected)
	})

	t.Run("derives the visual plan", func(t *testing.T) {
		s := loaded(t)
		require.True(t, s.Select("p1", t0))

		assert.Equal(t, StageAnswering, s.Stage())
		assert.Equal(t, ViewProblem, s.View)
		assert.Equal(t, "p1", s.Selected.ID)
		assert.Equal(t, t0, s.StartedAt)
		require.Len(t, s.Visual.Base, 5)
		assert.True(t, s.Visual.Base[0].Removing)
		assert.True(t, s.Visual.Base[1].Removing)
		assert.False(t, s.Visual.Base[2].Removing)
	})

	t.Run("only from the catalog", func(t *testing.T) {
		s := loaded(t)
		require.True(t, s.Select("p1", t0))
		assert.False(t, s.Select("p2", t0))
		assert.Equal(t, "p1", s.Selected.ID)
	})
}

func TestSelectAlwaysResets(t *testing.T) {
	setups := map[string]func(t *testing.T) *State{
		"fresh": loaded,
		"after graded": func(t *testing.T) *State {
			s := graded(t)
			s.ReturnToCatalog()
			return s
		},
		"after explanation": func(t *testing.T) *State {
			s := graded(t)
			req := s.BeginExplain()
			s.CompleteExplain(req, &problem.DetailedExplanation{Hints: []string{"count"}}, nil)
			s.ReturnToCatalog()
			return s
		},
		"after abandoned answer": func(t *testing.T) *State {
			s := loaded(t)
			s.Select("p2", t0)
			s.SetAnswer("99")
			s.ReturnToCatalog()
			return s
		},
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			s := setup(t)
			s.Notice = "stale notice"
			later := t0.Add(time.Hour)

			require.True(t, s.Select("p1", later))
			assert.Empty(t, s.Answer)
			assert.Nil(t, s.Result)
			assert.Nil(t, s.Explanation)
			assert.Empty(t, s.Notice)
			assert.Zero(t, s.TimeTaken)
			assert.Equal(t, later, s.StartedAt)
			assert.Equal(t, StageAnswering, s.Stage())
		})
	}
}

func TestSetAnswer(t *testing.T) {
	s := loaded(t)
	s.SetAnswer("7")
	assert.Empty(t, s.Answer, "ignored in the catalog")

	s.Select("p1", t0)
	s.SetAnswer("3")
	assert.Equal(t, "3", s.Answer)

	req := s.BeginSubmit(t0)
	require.NotNil(t, req)
	s.SetAnswer("4")
	assert.Equal(t, "3", s.Answer, "ignored while submitting")
}

func TestSubmit(t *testing.T) {
	t.Run("blank answer is a no-op", func(t *testing.T) {
		s := loaded(t)
		s.Select("p1", t0)
		for _, a := range []string{"", "   ", "\t"} {
			s.SetAnswer(a)
			assert.Nil(t, s.BeginSubmit(t0))
			assert.False(t, s.Busy())
		}
	})

	t.Run("builds the submission", func(t *testing.T) {
		s := loaded(t)
		s.Select("p1", t0)
		s.SetAnswer(" 3 ")

		req := s.BeginSubmit(t0.Add(12*time.Second + 900*time.Millisecond))
		require.NotNil(t, req)
		assert.True(t, s.Busy())
		assert.Equal(t, OpSubmit, s.Pending())
		assert.Equal(t, gateway.Submission{
			ProblemID:  "p1",
			UserAnswer: "3",
			UserID:     "user_1",
			TimeTaken:  12,
		}, req.Submission)
	})

	t.Run("clock skew floors at zero", func(t *testing.T) {
		s := loaded(t)
		s.Select("p1", t0)
		s.SetAnswer("3")
		req := s.BeginSubmit(t0.Add(-time.Second))
		require.NotNil(t, req)
		assert.Zero(t, req.Submission.TimeTaken)
	})

	t.Run("not from graded", func(t *testing.T) {
		s := graded(t)
		assert.Nil(t, s.BeginSubmit(t0))
	})
}

func TestSelectSubmitScenario(t *testing.T) {
	s := New("user_1")
	s.CompleteLoad(s.BeginLoad(), catalog()[:1], nil)

	require.True(t, s.Select("p1", t0))
	require.Len(t, s.Visual.Base, 5)
	for i, tok := range s.Visual.Base {
		assert.Equal(t, i < 2, tok.Removing, "token %d", i)
	}

	s.SetAnswer("3")
	req := s.BeginSubmit(t0.Add(8 * time.Second))
	require.NotNil(t, req)
	require.True(t, s.Busy())

	res := &problem.SubmissionResult{
		IsCorrect:     true,
		UserAnswer:    "3",
		CorrectAnswer: "3",
		Explanation:   problem.Explanation{Message: "Great job!"},
	}
	s.CompleteSubmit(req, res, nil)

	assert.Equal(t, StageGraded, s.Stage())
	assert.False(t, s.Busy())
	assert.Same(t, res, s.Result)
	assert.Equal(t, 8, s.TimeTaken)
	assert.Empty(t, s.Notice)
}

func TestSubmitRejectedThenRetried(t *testing.T) {
	s := loaded(t)
	s.Select("p1", t0)
	s.SetAnswer("three")

	req := s.BeginSubmit(t0.Add(time.Second))
	s.CompleteSubmit(req, nil, &gateway.RejectedError{Status: 404, Message: "Problem not found"})

	assert.Equal(t, StageAnswering, s.Stage())
	assert.Equal(t, "Problem not found", s.Notice)
	assert.False(t, s.Busy())
	assert.Equal(t, "three", s.Answer)

	s.SetAnswer("3")
	retry := s.BeginSubmit(t0.Add(2 * time.Second))
	require.NotNil(t, retry)
	assert.Equal(t, "3", retry.Submission.UserAnswer)
	s.CompleteSubmit(retry, &problem.SubmissionResult{IsCorrect: true}, nil)
	assert.Equal(t, StageGraded, s.Stage())
}

func TestSubmitUnavailable(t *testing.T) {
	s := loaded(t)
	s.Select("p1", t0)
	s.SetAnswer("3")
	req := s.BeginSubmit(t0)
	s.CompleteSubmit(req, nil, &gateway.UnavailableError{Status: 502})

	assert.Equal(t, StageAnswering, s.Stage())
	assert.Equal(t, NoticeSubmitFailed, s.Notice)
	assert.False(t, s.Busy())
}

func TestExplain(t *testing.T) {
	t.Run("not before grading", func(t *testing.T) {
		s := loaded(t)
		s.Select("p1", t0)
		assert.Nil(t, s.BeginExplain())
	})

	t.Run("attaches the explanation", func(t *testing.T) {
		s := graded(t)
		req := s.BeginExplain()
		require.NotNil(t, req)
		assert.Equal(t, "p1", req.ProblemID)
		assert.Equal(t, OpExplain, s.Pending())

		exp := &problem.DetailedExplanation{Hints: []string{"Start with 5"}}
		s.CompleteExplain(req, exp, nil)
		assert.Equal(t, StageExplanationShown, s.Stage())
		assert.False(t, s.Busy())
		assert.Nil(t, s.BeginExplain(), "already fetched")
	})

	t.Run("second request while pending is a no-op", func(t *testing.T) {
		s := graded(t)
		first := s.BeginExplain()
		require.NotNil(t, first)
		assert.Nil(t, s.BeginExplain())
	})

	t.Run("failure keeps graded", func(t *testing.T) {
		s := graded(t)
		req := s.BeginExplain()
		s.CompleteExplain(req, nil, errors.New("timeout"))
		assert.Equal(t, StageGraded, s.Stage())
		assert.Equal(t, NoticeExplainFailed, s.Notice)
		assert.NotNil(t, s.BeginExplain(), "retry permitted")
	})
}

func TestBusyBlocksTriggers(t *testing.T) {
	t.Run("submit while submitting", func(t *testing.T) {
		s := loaded(t)
		s.Select("p1", t0)
		s.SetAnswer("3")
		require.NotNil(t, s.BeginSubmit(t0))
		before := *s
		assert.Nil(t, s.BeginSubmit(t0))
		assert.Nil(t, s.BeginExplain())
		assert.Equal(t, before, *s)
	})

	t.Run("explain while loading", func(t *testing.T) {
		s := graded(t)
		s.acquire(OpLoad)
		assert.Nil(t, s.BeginExplain())
		assert.Equal(t, StageGraded, s.Stage())
	})
}

func TestReturnToCatalog(t *testing.T) {
	t.Run("from catalog is a no-op", func(t *testing.T) {
		s := loaded(t)
		assert.False(t, s.ReturnToCatalog())
	})

	for name, setup := range map[string]func(t *testing.T) *State{
		"answering": func(t *testing.T) *State {
			s := loaded(t)
			s.Select("p2", t0)
			s.SetAnswer("7")
			return s
		},
		"graded": graded,
		"explanation": func(t *testing.T) *State {
			s := graded(t)
			s.CompleteExplain(s.BeginExplain(), &problem.DetailedExplanation{}, nil)
			return s
		},
	} {
		t.Run("from "+name, func(t *testing.T) {
			s := setup(t)
			require.True(t, s.ReturnToCatalog())
			assert.Equal(t, StageCatalog, s.Stage())
			assert.Equal(t, ViewCatalog, s.View)
			assert.Nil(t, s.Selected)
			assert.Empty(t, s.Answer)
			assert.Nil(t, s.Result)
			assert.Nil(t, s.Explanation)
			assert.Empty(t, s.Visual.Base)
			assert.Len(t, s.Problems, 2, "catalog is kept")
		})
	}
}

func TestStaleResponsesAreDropped(t *testing.T) {
	t.Run("submission after leaving", func(t *testing.T) {
		s := loaded(t)
		s.Select("p1", t0)
		s.SetAnswer("3")
		req := s.BeginSubmit(t0)
		s.ReturnToCatalog()
		assert.True(t, s.Busy(), "busy until the call completes")

		s.CompleteSubmit(req, &problem.SubmissionResult{IsCorrect: true}, nil)
		assert.False(t, s.Busy())
		assert.Nil(t, s.Result)
		assert.Equal(t, StageCatalog, s.Stage())
	})

	t.Run("submission after reselecting the same problem", func(t *testing.T) {
		s := loaded(t)
		s.Select("p1", t0)
		s.SetAnswer("3")
		req := s.BeginSubmit(t0)
		s.ReturnToCatalog()
		s.Select("p1", t0.Add(time.Minute))

		s.CompleteSubmit(req, nil, &gateway.RejectedError{Status: 409, Message: "duplicate"})
		assert.Equal(t, StageAnswering, s.Stage())
		assert.Empty(t, s.Notice)
		assert.False(t, s.Busy())
	})

	t.Run("explanation after leaving", func(t *testing.T) {
		s := graded(t)
		req := s.BeginExplain()
		s.ReturnToCatalog()
		s.CompleteExplain(req, &problem.DetailedExplanation{}, nil)
		assert.Nil(t, s.Explanation)
		assert.False(t, s.Busy())
	})
}

func TestApplyProgress(t *testing.T) {
	s := loaded(t)
	s.ApplyProgress(&problem.ProgressStats{TotalScore: 30, Accuracy: 75, TotalCorrect: 3}, nil)
	require.NotNil(t, s.Stats)
	assert.Equal(t, 30, s.Stats.TotalScore)

	s.ApplyProgress(nil, errors.New("down"))
	assert.Equal(t, 30, s.Stats.TotalScore, "stats kept on failure")
	assert.Equal(t, NoticeProgressFailed, s.Notice)

	s.Notice = "Problem not found"
	s.ApplyProgress(nil, errors.New("down"))
	assert.Equal(t, "Problem not found", s.Notice)

	s.ApplyProgress(&problem.ProgressStats{TotalScore: 40}, nil)
	assert.Equal(t, problem.ProgressStats{TotalScore: 40}, *s.Stats, "replaced wholesale")
}

func TestCompleteWithNilRequestIsIgnored(t *testing.T) {
	s := graded(t)
	s.acquire(OpExplain)
	s.CompleteLoad(nil, nil, nil)
	s.CompleteSubmit(nil, nil, nil)
	s.CompleteExplain(nil, nil, nil)
	assert.True(t, s.Busy())
}

func TestDismissNotice(t *testing.T) {
	s := New("u")
	s.Notice = "x"
	s.DismissNotice()
	assert.Empty(t, s.Notice)
}
