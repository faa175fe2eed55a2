// Package solve renders one selected problem: its story and visual aid,
// the answer form, and the graded result with explanations.
package solve

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storymath/internal/intent"
	"github.com/abhisek/storymath/internal/screen"
	"github.com/abhisek/storymath/internal/session"
	"github.com/abhisek/storymath/internal/ui/components"
	"github.com/abhisek/storymath/internal/ui/layout"
)

// ProblemScreen shows the selected problem.
type ProblemScreen struct {
	state   *session.State
	spinner *components.Spinner
	input   components.TextInput

	explain explanationCache
}

var _ screen.Screen = (*ProblemScreen)(nil)
var _ screen.KeyHintProvider = (*ProblemScreen)(nil)

// New creates the screen for the problem currently selected in state.
func New(state *session.State, spinner *components.Spinner) *ProblemScreen {
	input := components.NewTextInput("Type your answer", true, 6)
	input.Model.SetValue(state.Answer)
	return &ProblemScreen{
		state:   state,
		spinner: spinner,
		input:   input,
	}
}

func (p *ProblemScreen) Init() tea.Cmd {
	return p.input.Init()
}

func (p *ProblemScreen) Title() string {
	if p.state.Selected == nil {
		return "Problem"
	}
	return p.state.Selected.Title
}

func (p *ProblemScreen) KeyHints() []layout.KeyHint {
	switch p.state.Stage() {
	case session.StageAnswering:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Check answer"},
			{Key: "Esc", Description: "Back"},
		}
	case session.StageGraded:
		return []layout.KeyHint{
			{Key: "E", Description: "Explain more"},
			{Key: "Enter", Description: "Next problem"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next problem"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *ProblemScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if p.state.Stage() == session.StageAnswering {
			var cmd tea.Cmd
			p.input, cmd = p.input.Update(msg)
			return p, cmd
		}
		return p, nil
	}

	if p.state.Stage() == session.StageAnswering {
		return p.handleAnswerKey(kmsg)
	}

	switch kmsg.String() {
	case "e":
		if p.state.Stage() == session.StageGraded {
			return p, intent.Emit(intent.ExplainMsg{})
		}
	case "enter", "esc":
		return p, intent.Emit(intent.BackMsg{})
	}
	return p, nil
}

func (p *ProblemScreen) handleAnswerKey(k tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch k.String() {
	case "enter":
		return p, intent.Emit(intent.SubmitMsg{})
	case "esc":
		return p, intent.Emit(intent.BackMsg{})
	}

	// The answer is frozen while it is being graded.
	if p.state.Busy() {
		return p, nil
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(k)
	if after := p.input.Value(); after != before {
		return p, tea.Batch(intent.Emit(intent.AnswerChangedMsg{Text: after}), cmd)
	}
	return p, cmd
}
