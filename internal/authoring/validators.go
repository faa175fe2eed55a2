package authoring

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/storymath/internal/problem"
)

// Validator checks a draft. Implementations are stateless.
type Validator interface {
	Name() string
	Validate(d *Draft, req Request) *ValidationError
}

// StructuralValidator checks text lengths, ranges and that the counts
// match the requested operation.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(d *Draft, req Request) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	switch {
	case strings.TrimSpace(d.Title) == "":
		return fail("title is empty")
	case len(d.Title) > 60:
		return fail("title exceeds 60 characters")
	case strings.TrimSpace(d.Story) == "":
		return fail("story is empty")
	case len(d.Story) > 400:
		return fail("story exceeds 400 characters")
	case len(d.Steps) == 0:
		return fail("no solution steps")
	}

	limit := maxCount[req.Difficulty]
	if d.InitialCount < 1 || d.InitialCount > limit {
		return fail("initialCount %d outside 1..%d", d.InitialCount, limit)
	}

	switch d.Operation {
	case problem.OperationAddition:
		if d.AddCount < 1 || d.AddCount > limit || d.RemoveCount != 0 {
			return fail("addition needs 1..%d added and nothing removed", limit)
		}
	case problem.OperationSubtraction:
		if d.RemoveCount < 1 || d.RemoveCount > d.InitialCount || d.AddCount != 0 {
			return fail("subtraction needs 1..%d removed and nothing added", d.InitialCount)
		}
	default:
		return fail("unsupported operation %q", d.Operation)
	}
	return nil
}

// ArithmeticValidator recomputes the answer from the counts and checks
// that the story states both quantities.
type ArithmeticValidator struct{}

func (v *ArithmeticValidator) Name() string { return "arithmetic" }

func (v *ArithmeticValidator) Validate(d *Draft, _ Request) *ValidationError {
	want := d.InitialCount + d.AddCount - d.RemoveCount
	if d.Answer != want {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %d but draft claims %d", want, d.Answer),
			Retryable: true,
		}
	}

	mentioned := numbersIn(d.Story)
	delta := d.AddCount + d.RemoveCount
	for _, n := range []int{d.InitialCount, delta} {
		if !mentioned[n] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("story does not mention %d", n),
				Retryable: true,
			}
		}
	}
	return nil
}

// DuplicateValidator rejects titles already in the catalog.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(d *Draft, req Request) *ValidationError {
	for _, t := range req.Avoid {
		if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(d.Title)) {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("title %q already exists", d.Title),
				Retryable: true,
			}
		}
	}
	return nil
}

var digitsRe = regexp.MustCompile(`\d+`)

// numbersIn returns the set of integers written as digits in s.
func numbersIn(s string) map[int]bool {
	out := make(map[int]bool)
	for _, m := range digitsRe.FindAllString(s, -1) {
		if n, err := strconv.Atoi(m); err == nil {
			out[n] = true
		}
	}
	return out
}
