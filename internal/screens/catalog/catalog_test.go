package catalog

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/storymath/internal/intent"
	"github.com/abhisek/storymath/internal/problem"
	"github.com/abhisek/storymath/internal/session"
	"github.com/abhisek/storymath/internal/ui/components"
)

func loaded(t *testing.T, problems []problem.Problem, err error) *session.State {
	t.Helper()
	s := session.New("user_1")
	req := s.BeginLoad()
	if req == nil {
		t.Fatal("expected load request")
	}
	s.CompleteLoad(req, problems, err)
	return s
}

func sampleProblems() []problem.Problem {
	return []problem.Problem{
		{ID: "p1", Title: "Apple Snack", Difficulty: problem.DifficultyEasy, VisualType: problem.VisualApples, Operation: problem.OperationSubtraction},
		{ID: "p2", Title: "Toy Parade", Difficulty: problem.DifficultyHard, VisualType: problem.VisualCars, Operation: problem.OperationAddition},
	}
}

func TestLoadingView(t *testing.T) {
	s := session.New("user_1")
	s.BeginLoad()
	c := New(s, components.NewSpinner())

	if v := ansi.Strip(c.View(80, 20)); !strings.Contains(v, "Loading problems from server...") {
		t.Fatalf("expected loading indicator:\n%s", v)
	}
}

func TestListView(t *testing.T) {
	s := loaded(t, sampleProblems(), nil)
	s.Stats = &problem.ProgressStats{TotalScore: 40, Accuracy: 80, TotalCorrect: 4}
	c := New(s, components.NewSpinner())

	v := ansi.Strip(c.View(100, 20))
	for _, want := range []string{"Apple Snack", "Toy Parade", "easy", "hard", "taking away", "adding", "Score 40", "Solved 4", "80%"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
	if !strings.Contains(v, "▸ Apple Snack") {
		t.Errorf("cursor should start on the first problem:\n%s", v)
	}
}

func TestSelectEmitsIntent(t *testing.T) {
	s := loaded(t, sampleProblems(), nil)
	c := New(s, components.NewSpinner())

	c.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := c.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(intent.SelectMsg)
	if !ok || msg.ProblemID != "p2" {
		t.Fatalf("expected SelectMsg{p2}, got %#v", cmd())
	}
}

func TestEmptyCatalogOffersRetry(t *testing.T) {
	s := loaded(t, nil, errors.New("connection refused"))
	c := New(s, components.NewSpinner())

	v := ansi.Strip(c.View(80, 20))
	if !strings.Contains(v, "No problems found!") || !strings.Contains(v, "Press r") {
		t.Fatalf("expected empty state with retry hint:\n%s", v)
	}
	if hints := c.KeyHints(); hints[0].Key != "R" {
		t.Errorf("unexpected hints %+v", hints)
	}

	_, cmd := c.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected retry command")
	}
	if _, ok := cmd().(intent.RetryMsg); !ok {
		t.Fatalf("expected RetryMsg, got %#v", cmd())
	}

	// Navigation keys do nothing without problems.
	if _, cmd := c.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Fatal("enter on an empty catalog should do nothing")
	}
}

func TestCursorClampsWhenCatalogShrinks(t *testing.T) {
	s := loaded(t, sampleProblems(), nil)
	c := New(s, components.NewSpinner())
	c.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	s.Problems = s.Problems[:1]
	_, cmd := c.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if msg, _ := cmd().(intent.SelectMsg); msg.ProblemID != "p1" {
		t.Fatalf("expected SelectMsg{p1}, got %#v", cmd())
	}
}
