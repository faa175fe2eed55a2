package authoring

import "github.com/abhisek/storymath/internal/llm"

// ProblemSchema is the structured output requested for one draft.
var ProblemSchema = &llm.Schema{
	Name:        "word-problem",
	Description: "One elementary addition or subtraction word problem with its worked solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "A short, friendly title (2-5 words)",
			},
			"story": map[string]any{
				"type":        "string",
				"description": "The word problem, ending in a question. Use digits for every quantity.",
			},
			"initialCount": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     20,
				"description": "How many objects the story starts with",
			},
			"changeCount": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     20,
				"description": "How many objects are added or taken away",
			},
			"answer": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"description": "The number of objects at the end",
			},
			"steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
				"maxItems":    5,
				"description": "Short solution steps a young child can follow",
			},
		},
		"required":             []any{"title", "story", "initialCount", "changeCount", "answer", "steps"},
		"additionalProperties": false,
	},
}

// draftOutput is the raw model response.
type draftOutput struct {
	Title        string   `json:"title"`
	Story        string   `json:"story"`
	InitialCount int      `json:"initialCount"`
	ChangeCount  int      `json:"changeCount"`
	Answer       int      `json:"answer"`
	Steps        []string `json:"steps"`
}
