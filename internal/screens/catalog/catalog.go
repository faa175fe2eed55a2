// Package catalog renders the problem list with the learner's progress.
package catalog

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storymath/internal/intent"
	"github.com/abhisek/storymath/internal/problem"
	"github.com/abhisek/storymath/internal/screen"
	"github.com/abhisek/storymath/internal/session"
	"github.com/abhisek/storymath/internal/ui/components"
	"github.com/abhisek/storymath/internal/ui/layout"
	"github.com/abhisek/storymath/internal/ui/theme"
	"github.com/abhisek/storymath/internal/visual"
)

// CatalogScreen lists the loaded problems.
type CatalogScreen struct {
	state   *session.State
	spinner *components.Spinner
	cursor  int
}

var _ screen.Screen = (*CatalogScreen)(nil)
var _ screen.KeyHintProvider = (*CatalogScreen)(nil)

// New creates the catalog screen over state.
func New(state *session.State, spinner *components.Spinner) *CatalogScreen {
	return &CatalogScreen{state: state, spinner: spinner}
}

func (c *CatalogScreen) Init() tea.Cmd {
	return nil
}

func (c *CatalogScreen) Title() string {
	return "Word Problems"
}

func (c *CatalogScreen) KeyHints() []layout.KeyHint {
	if c.showRetry() {
		return []layout.KeyHint{
			{Key: "R", Description: "Try again"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Solve"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (c *CatalogScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	if len(c.state.Problems) == 0 {
		if kmsg.String() == "r" {
			return c, intent.Emit(intent.RetryMsg{})
		}
		return c, nil
	}

	m, cmd := c.menu().Update(kmsg)
	c.cursor = m.Selected
	return c, cmd
}

func (c *CatalogScreen) View(width, height int) string {
	var b strings.Builder

	if bar := c.renderStats(width); bar != "" {
		b.WriteString(bar)
		b.WriteString("\n\n")
	}

	switch {
	case len(c.state.Problems) > 0:
		b.WriteString(c.menu().View(width - 2))
	case c.state.Pending() == session.OpLoad || !c.state.LoadAttempted:
		b.WriteString("  " + c.spinner.View("Loading problems from server..."))
	default:
		b.WriteString(c.renderEmpty(width))
	}

	return b.String()
}

// menu builds the list from the current catalog, keeping the cursor in range.
func (c *CatalogScreen) menu() components.Menu {
	items := make([]components.MenuItem, 0, len(c.state.Problems))
	for _, p := range c.state.Problems {
		items = append(items, components.MenuItem{
			Label:      p.Title,
			Detail:     detail(p),
			Badge:      string(p.Difficulty),
			BadgeStyle: theme.DifficultyStyle(p.Difficulty),
			Action:     intent.Emit(intent.SelectMsg{ProblemID: p.ID}),
		})
	}
	m := components.NewMenu(items)
	m.Selected = min(max(c.cursor, 0), max(len(items)-1, 0))
	return m
}

func detail(p problem.Problem) string {
	glyph := visual.Glyph(p.VisualType)
	switch p.Operation {
	case problem.OperationAddition:
		return glyph + " adding"
	case problem.OperationSubtraction:
		return glyph + " taking away"
	}
	return glyph
}

func (c *CatalogScreen) renderStats(width int) string {
	stats := c.state.Stats
	if stats == nil {
		return ""
	}
	summary := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("  Score %d", stats.TotalScore)) +
		theme.Subtitle.Render(fmt.Sprintf("   Solved %d", stats.TotalCorrect))

	bar := components.NewProgressBar("Accuracy", stats.Accuracy, min(width-lipgloss.Width(summary)-6, 40))
	return summary + "   " + bar.View()
}

func (c *CatalogScreen) showRetry() bool {
	return len(c.state.Problems) == 0 && c.state.LoadAttempted && !c.state.Busy()
}

func (c *CatalogScreen) renderEmpty(width int) string {
	msg := theme.Body.Render("No problems found!")
	if c.showRetry() {
		msg += "\n\n" + theme.Hint.Render("Press r to try loading them again.")
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render("\n\n" + msg)
}
