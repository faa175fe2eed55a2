// Package intent defines the messages screens emit for user actions. The
// app turns them into session transitions; screens never change the
// session themselves.
package intent

import tea "charm.land/bubbletea/v2"

// SelectMsg asks to open a problem from the catalog.
type SelectMsg struct {
	ProblemID string
}

// AnswerChangedMsg carries the current draft answer text.
type AnswerChangedMsg struct {
	Text string
}

// SubmitMsg asks to grade the draft answer.
type SubmitMsg struct{}

// ExplainMsg asks for the detailed explanation of the graded problem.
type ExplainMsg struct{}

// BackMsg asks to return to the catalog.
type BackMsg struct{}

// RetryMsg asks to reload an empty catalog.
type RetryMsg struct{}

// Emit returns a command that delivers msg.
func Emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
