package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storymath/internal/problem"
	"github.com/abhisek/storymath/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20

	CompactWidthThreshold = 90
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth returns true if the terminal width is in compact range.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the application header bar. Stats may be nil
// before progress has been fetched.
func RenderHeader(title string, stats *problem.ProgressStats, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  storymath")

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)

	right := renderStats(stats, width)

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	innerWidth := max(width-4, 0)

	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

func renderStats(stats *problem.ProgressStats, width int) string {
	accent := lipgloss.NewStyle().Foreground(theme.Accent)
	if stats == nil {
		return accent.Render("★ -")
	}
	score := accent.Render(fmt.Sprintf("★ %d", stats.TotalScore))
	if IsCompactWidth(width) {
		return score
	}
	return score +
		lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("   ✓ %d", stats.TotalCorrect)) +
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("   %.0f%%", stats.Accuracy))
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		parts = append(parts, part)
	}

	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render("  " + strings.Join(parts, "   "))
}

// RenderNotice renders a one-line failure notice across the frame.
func RenderNotice(text string, width int) string {
	return theme.Notice.Width(width).Render("! " + text)
}

// RenderFrame composes the full frame: header, optional notice, content
// and footer.
func RenderFrame(header, notice, content, footer string, width, height int) string {
	top := header
	if notice != "" {
		top += "\n" + notice
	}

	contentHeight := max(height-lipgloss.Height(top)-lipgloss.Height(footer), 0)

	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return top + "\n" + styledContent + "\n" + footer
}

// ContentHeight returns the height left for screen content once the
// header, notice and footer are drawn.
func ContentHeight(header, notice, footer string, totalHeight int) int {
	used := lipgloss.Height(header) + lipgloss.Height(footer)
	if notice != "" {
		used += lipgloss.Height(notice)
	}
	return max(totalHeight-used, 0)
}
