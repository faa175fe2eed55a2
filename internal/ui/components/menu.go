package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storymath/internal/ui/theme"
)

// MenuItem represents a single row in a selectable list.
type MenuItem struct {
	Label string
	// Detail is a dim second column, e.g. the operation.
	Detail string
	// Badge is rendered right-aligned in BadgeStyle.
	Badge      string
	BadgeStyle lipgloss.Style
	// Action runs when the item is chosen.
	Action tea.Cmd
}

// Menu is a vertical list with a cursor.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the cursor on the first item.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// Update handles keyboard navigation and runs the selected item's action
// on enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
	case "home", "g":
		m.Selected = 0
	case "end", "G":
		m.Selected = len(m.Items) - 1
	case "enter":
		return m, m.Items[m.Selected].Action
	}
	return m, nil
}

// View renders the menu at the given width.
func (m Menu) View(width int) string {
	var b strings.Builder
	for i, item := range m.Items {
		cursor, label := "    ", theme.Unselected.Render(item.Label)
		if i == m.Selected {
			cursor, label = theme.Selected.Render("  ▸ "), theme.Selected.Render(item.Label)
		}
		left := cursor + label
		if item.Detail != "" {
			left += "  " + theme.Subtitle.Render(item.Detail)
		}
		badge := item.BadgeStyle.Render(item.Badge)
		gap := max(width-lipgloss.Width(left)-lipgloss.Width(badge)-2, 2)
		b.WriteString(left + strings.Repeat(" ", gap) + badge + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
