package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storymath/internal/ui/theme"
)

// PanelWidth caps content width so panels stay readable on wide terminals.
func PanelWidth(frameWidth int) int {
	return min(max(frameWidth-4, 20), 72)
}

// Panel wraps content in a rounded border with an optional title line.
func Panel(title, content string, width int, border color.Color) string {
	if title != "" {
		content = theme.Title.Render(title) + "\n\n" + content
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Padding(0, 1).
		Render(content)
}
