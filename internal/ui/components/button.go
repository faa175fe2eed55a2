package components

import "github.com/abhisek/storymath/internal/ui/theme"

// Button renders a key-triggered action. Inactive buttons are drawn dim;
// key handling belongs to the owning screen.
type Button struct {
	Label  string
	Active bool
}

// View renders the button.
func (b Button) View() string {
	label := "▸ " + b.Label
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
