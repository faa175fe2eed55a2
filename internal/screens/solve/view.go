package solve

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/abhisek/storymath/internal/problem"
	"github.com/abhisek/storymath/internal/session"
	"github.com/abhisek/storymath/internal/ui/components"
	"github.com/abhisek/storymath/internal/ui/theme"
	"github.com/abhisek/storymath/internal/visual"
)


// removalCaption is shown under a subtraction picture. It is left blank
// until there is agreed wording.
const removalCaption = ""

func (p *ProblemScreen) View(width, height int) string {
	sel := p.state.Selected
	if sel == nil {
		return ""
	}
	pw := components.PanelWidth(width)

	sections := []string{
		p.renderStory(*sel, pw),
		renderVisual(p.state.Visual, pw),
	}

	if p.state.Result == nil {
		sections = append(sections, p.renderAnswerForm())
	} else {
		sections = append(sections, renderResult(p.state.Result, pw))
		sections = append(sections, p.renderExplanation(pw))
	}

	return lipgloss.NewStyle().PaddingLeft(2).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (p *ProblemScreen) renderStory(sel problem.Problem, width int) string {
	heading := theme.Title.Render(sel.Title) + "  " +
		theme.DifficultyStyle(sel.Difficulty).Render(string(sel.Difficulty))
	story := theme.Body.Width(width).Render(sel.Story)
	return heading + "\n\n" + story + "\n"
}

// renderVisual draws the object tokens: removed ones highlighted, added
// ones after a plus sign.
func renderVisual(plan visual.Plan, width int) string {
	perRow := max((width-2)/3, 1)

	var b strings.Builder
	b.WriteString(renderTokens(plan.Glyph, plan.Base, plan.BaseOverflow(), perRow))

	if plan.AdditionCaption {
		b.WriteString("\n" + theme.Caption.Render("  +") + "\n")
		b.WriteString(renderTokens(plan.Glyph, plan.Added, plan.AddedOverflow(), perRow))
		b.WriteString("\n" + theme.Caption.Render(fmt.Sprintf("Adding %d more!", plan.AddCount)))
	}
	if plan.RemovalCaption {
		b.WriteString("\n" + theme.Caption.Render(removalCaption))
	}
	return b.String() + "\n"
}

// renderTokens draws tokens, then "+ N more" for rest objects not drawn.
func renderTokens(glyph string, tokens []visual.Token, rest, perRow int) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 && i%perRow == 0 {
			b.WriteString("\n")
		}
		if tok.Removing {
			b.WriteString(theme.Removing.Render(glyph))
		} else {
			b.WriteString(glyph)
		}
		b.WriteString(" ")
	}
	if rest > 0 {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf(" + %d more", rest)))
	}
	return b.String()
}

func (p *ProblemScreen) renderAnswerForm() string {
	button := components.Button{Label: "Check answer", Active: p.state.CanSubmit()}.View()
	form := theme.Subtitle.Render("Your answer:") + "\n" + p.input.View() + "\n\n" + button
	if p.state.Pending() == session.OpSubmit {
		form += "\n\n" + p.spinner.View("Checking your answer...")
	}
	return "\n" + form
}

func renderResult(res *problem.SubmissionResult, width int) string {
	var b strings.Builder

	heading, border := theme.Correct.Render("✓ Correct!"), theme.Success
	if !res.IsCorrect {
		heading, border = theme.Incorrect.Render("✗ Not quite"), theme.Error
	}
	b.WriteString(heading)
	if msg := res.Explanation.Message; msg != "" {
		b.WriteString("  " + theme.Body.Render(msg))
	}
	b.WriteString("\n")

	if !res.IsCorrect {
		b.WriteString("\n" + theme.Subtitle.Render("Your answer: ") + theme.Incorrect.Render(res.UserAnswer.String()))
		b.WriteString("   " + theme.Subtitle.Render("Correct answer: ") + theme.Correct.Render(res.CorrectAnswer.String()))
		if r := res.Explanation.Reasoning; r != "" {
			b.WriteString("\n" + theme.Body.Width(width-4).Render(r))
		}
		b.WriteString("\n")
	}

	if len(res.Steps) > 0 {
		b.WriteString("\n" + theme.Caption.Render("Step by step") + "\n")
		for i, step := range res.Steps {
			b.WriteString(theme.Body.Width(width-4).Render(fmt.Sprintf("%d. %s", i+1, step)) + "\n")
		}
	}

	if enc := res.Explanation.Encouragement; enc != "" {
		b.WriteString("\n" + theme.Hint.Render(enc))
	}

	return "\n" + components.Panel("", strings.TrimRight(b.String(), "\n"), width, border)
}

func (p *ProblemScreen) renderExplanation(width int) string {
	switch {
	case p.state.Explanation != nil:
		return "\n" + components.Panel("", p.explain.render(p.state.Explanation, width-4), width, theme.Secondary)
	case p.state.Pending() == session.OpExplain:
		return "\n" + p.spinner.View("Fetching a detailed explanation...")
	}
	return "\n" + theme.Hint.Render("Press e for a detailed explanation.")
}

// explanationCache holds the glamour rendering of the last explanation so
// it is not re-rendered on every frame.
type explanationCache struct {
	exp   *problem.DetailedExplanation
	width int
	out   string
}

func (c *explanationCache) render(exp *problem.DetailedExplanation, width int) string {
	if c.exp == exp && c.width == width {
		return c.out
	}
	c.exp, c.width = exp, width
	c.out = renderMarkdown(explanationMarkdown(exp), width)
	return c.out
}

func explanationMarkdown(exp *problem.DetailedExplanation) string {
	var b strings.Builder
	b.WriteString("## Hints\n\n")
	if len(exp.Hints) == 0 {
		b.WriteString("No extra hints for this one.\n")
	}
	for i, h := range exp.Hints {
		fmt.Fprintf(&b, "%d. %s\n", i+1, h)
	}
	if len(exp.RelatedConcepts) > 0 {
		b.WriteString("\n## Related concepts\n\n")
		for _, c := range exp.RelatedConcepts {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	return b.String()
}

// renderMarkdown falls back to the raw markdown if glamour fails.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
