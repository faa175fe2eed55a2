// Package visual derives the token layout used to picture a word problem.
package visual

import "github.com/abhisek/storymath/internal/problem"

// UnknownGlyph stands in for visual types without a glyph.
const UnknownGlyph = "❓"

// MaxTokens caps the tokens materialised per group. Larger counts are kept
// on the Plan and drawn as a remainder.
const MaxTokens = 30

var glyphs = map[problem.VisualType]string{
	problem.VisualApples:  "🍎",
	problem.VisualCookies: "🍪",
	problem.VisualCars:    "🚗",
	problem.VisualGifts:   "🎁",
}

// Token is one drawn object.
type Token struct {
	Index int
	// Removing marks tokens that go away in a subtraction problem.
	Removing bool
}

// Plan is everything the renderer needs to draw a problem's quantities.
// Base and Added hold at most MaxTokens tokens each; the counts are the
// full quantities.
type Plan struct {
	Glyph string
	Base  []Token
	Added []Token

	AdditionCaption bool
	RemovalCaption  bool

	InitialCount int
	AddCount     int
	RemoveCount  int
}

// Glyph returns the display glyph for a visual type.
func Glyph(t problem.VisualType) string {
	if g, ok := glyphs[t]; ok {
		return g
	}
	return UnknownGlyph
}

// Derive builds the visual plan for p. It has no side effects and returns
// equal plans for equal problems.
func Derive(p problem.Problem) Plan {
	initial := p.InitialCount.Int()
	add := p.AddCount.Int()
	remove := p.RemoveCount.Int()

	subtracting := p.Operation == problem.OperationSubtraction
	adding := p.Operation == problem.OperationAddition

	plan := Plan{
		Glyph:           Glyph(p.VisualType),
		Base:            tokens(initial),
		AdditionCaption: adding && add > 0,
		RemovalCaption:  subtracting && remove > 0,
		InitialCount:    initial,
		AddCount:        add,
		RemoveCount:     remove,
	}

	if subtracting {
		for i := range plan.Base {
			plan.Base[i].Removing = i < remove
		}
	}
	if plan.AdditionCaption {
		plan.Added = tokens(add)
	}

	return plan
}

// RemovingCount returns how many of the starting objects are taken away.
func (p Plan) RemovingCount() int {
	if !p.RemovalCaption {
		return 0
	}
	return max(min(p.RemoveCount, p.InitialCount), 0)
}

// BaseOverflow is how many starting objects are not in Base.
func (p Plan) BaseOverflow() int {
	return max(p.InitialCount, 0) - len(p.Base)
}

// AddedOverflow is how many added objects are not in Added.
func (p Plan) AddedOverflow() int {
	if !p.AdditionCaption {
		return 0
	}
	return p.AddCount - len(p.Added)
}

// tokens returns min(n, MaxTokens) unmarked tokens; n <= 0 yields none.
func tokens(n int) []Token {
	if n <= 0 {
		return nil
	}
	out := make([]Token, min(n, MaxTokens))
	for i := range out {
		out[i].Index = i
	}
	return out
}
