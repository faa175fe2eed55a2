package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelAliases(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.5-flash", "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiAliases); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":        map[string]any{"type": "string"},
			"initialCount": map[string]any{"type": "integer", "minimum": 0, "maximum": 20},
			"operation":    map[string]any{"type": "string", "enum": []string{"addition", "subtraction"}},
			"steps": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
			},
			"odd": map[string]any{"type": "null"},
		},
		"required": []any{"title", "initialCount"},
	}

	s := geminiSchema(def)

	if s.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT, got %s", s.Type)
	}
	if len(s.Properties) != 5 {
		t.Fatalf("expected 5 properties, got %d", len(s.Properties))
	}
	count := s.Properties["initialCount"]
	if count.Type != genai.TypeInteger || count.Minimum == nil || *count.Maximum != 20 {
		t.Fatalf("unexpected initialCount schema: %+v", count)
	}
	if len(s.Properties["operation"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %v", s.Properties["operation"].Enum)
	}
	steps := s.Properties["steps"]
	if steps.Type != genai.TypeArray || steps.Items.Type != genai.TypeString || *steps.MinItems != 1 {
		t.Fatalf("unexpected steps schema: %+v", steps)
	}
	if s.Properties["odd"].Type != genai.TypeString {
		t.Fatalf("unknown types should fall back to STRING, got %s", s.Properties["odd"].Type)
	}
	if len(s.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(s.Required))
	}
}
