package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-lite", "gemini-2.5-flash-lite"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string", "description": "Quiz title"},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 10,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"answers": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required": []any{"question", "answers"},
				},
			},
			"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "intermediate", "advanced", "expert"}},
		},
		"required": []any{"questions"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["title"].Description != "Quiz title" {
		t.Fatalf("description not carried: %q", schema.Properties["title"].Description)
	}
	if len(schema.Properties["difficulty"].Enum) != 4 {
		t.Fatalf("expected 4 enum values, got %d", len(schema.Properties["difficulty"].Enum))
	}

	qs := schema.Properties["questions"]
	if qs.Type != genai.TypeArray {
		t.Fatalf("expected ARRAY for questions, got %s", qs.Type)
	}
	if qs.MinItems == nil || *qs.MinItems != 1 || qs.MaxItems == nil || *qs.MaxItems != 10 {
		t.Fatalf("item bounds not carried: min=%v max=%v", qs.MinItems, qs.MaxItems)
	}
	if qs.Items.Properties["answers"].Items.Type != genai.TypeString {
		t.Fatalf("expected STRING for answers items, got %s", qs.Items.Properties["answers"].Items.Type)
	}
	if len(qs.Items.Required) != 2 {
		t.Fatalf("expected 2 required fields on a question, got %v", qs.Items.Required)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "questions" {
		t.Fatalf("required = %v", schema.Required)
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(t.Context(), GeminiConfig{Model: "gemini-flash"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
