package questiongen

import "github.com/abhisek/quizgen/internal/llm"

var questionItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"prompt": map[string]any{
			"type":        "string",
			"description": "The question shown to the player",
		},
		"answers": map[string]any{
			"type":        "array",
			"description": "Every acceptable answer, short and lower-case",
			"items":       map[string]any{"type": "string"},
		},
	},
	"required":             []any{"prompt", "answers"},
	"additionalProperties": false,
}

// QuestionSetSchema is the structured output requested from the model.
var QuestionSetSchema = &llm.Schema{
	Name:        "quiz-question-set",
	Description: "A titled set of quiz questions, each with its accepted answers",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "The topic in title case with spelling corrected",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "One sentence summarising the question set",
			},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    questionItem,
			},
		},
		"required":             []any{"title", "description", "questions"},
		"additionalProperties": false,
	},
}

// TopicFileSchema accepts hand-written topic files. Both the current
// title/description keys and the older topic/desc keys are allowed, and
// difficulty may be a label or a 1-10 number.
var TopicFileSchema = &llm.Schema{
	Name: "quiz-topic-file",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"topic":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"desc":        map[string]any{"type": "string"},
			"difficulty":  map[string]any{"type": []any{"string", "number"}},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt":  map[string]any{"type": "string"},
						"answers": map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "string"}},
					},
					"required": []any{"prompt", "answers"},
				},
			},
		},
		"required": []any{"questions"},
		"anyOf": []any{
			map[string]any{"required": []any{"title"}},
			map[string]any{"required": []any{"topic"}},
		},
	},
}
