// Package authoring drafts new word problems with an LLM in the backend's
// problem format and checks each draft before it is accepted.
package authoring

import (
	"fmt"

	"github.com/abhisek/storymath/internal/problem"
)

// Draft is a generated problem plus the grading data the backend needs.
type Draft struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Story        string             `json:"story"`
	Difficulty   problem.Difficulty `json:"difficulty"`
	VisualType   problem.VisualType `json:"visualType"`
	Operation    problem.Operation  `json:"operation"`
	InitialCount int                `json:"initialCount"`
	AddCount     int                `json:"addCount"`
	RemoveCount  int                `json:"removeCount"`
	Answer       int                `json:"answer"`
	Steps        []string           `json:"steps"`
}

// Problem returns the draft as a catalog problem.
func (d Draft) Problem() problem.Problem {
	return problem.Problem{
		ID:           d.ID,
		Title:        d.Title,
		Story:        d.Story,
		Difficulty:   d.Difficulty,
		VisualType:   d.VisualType,
		Operation:    d.Operation,
		InitialCount: problem.Count(d.InitialCount),
		AddCount:     problem.Count(d.AddCount),
		RemoveCount:  problem.Count(d.RemoveCount),
	}
}

// Request describes the problems to draft.
type Request struct {
	Operation  problem.Operation
	VisualType problem.VisualType
	Difficulty problem.Difficulty
	// Count is how many problems to draft.
	Count int
	// Avoid lists titles that already exist.
	Avoid []string
}

// Validate checks the request fields.
func (r Request) Validate() error {
	switch r.Operation {
	case problem.OperationAddition, problem.OperationSubtraction:
	default:
		return fmt.Errorf("operation must be addition or subtraction, got %q", r.Operation)
	}
	if _, ok := knownVisuals[r.VisualType]; !ok {
		return fmt.Errorf("unknown visual type %q", r.VisualType)
	}
	switch r.Difficulty {
	case problem.DifficultyEasy, problem.DifficultyMedium, problem.DifficultyHard:
	default:
		return fmt.Errorf("difficulty must be easy, medium or hard, got %q", r.Difficulty)
	}
	if r.Count < 1 {
		return fmt.Errorf("count must be at least 1")
	}
	return nil
}

var knownVisuals = map[problem.VisualType]struct{}{
	problem.VisualApples:  {},
	problem.VisualCookies: {},
	problem.VisualCars:    {},
	problem.VisualGifts:   {},
}

// ValidationError explains why a draft was rejected.
type ValidationError struct {
	Validator string
	Message   string
	// Retryable reports whether drafting again is likely to help.
	Retryable bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
