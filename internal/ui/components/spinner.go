package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storymath/internal/ui/theme"
)

// Spinner is the loading indicator shared by every screen. It only
// animates while something calls Update with its tick messages.
type Spinner struct {
	model spinner.Model
}

// NewSpinner creates a spinner in the theme accent color.
func NewSpinner() *Spinner {
	return &Spinner{model: spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
	)}
}

// Tick starts or resumes the animation.
func (s *Spinner) Tick() tea.Cmd {
	return s.model.Tick
}

// Update advances the frame on the spinner's own tick messages and
// ignores everything else.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return cmd
}

// View renders the current frame followed by label.
func (s *Spinner) View(label string) string {
	return s.model.View() + " " + theme.Subtitle.Render(label)
}
