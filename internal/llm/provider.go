package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one prompt to a model and returns its structured output.
type Provider interface {
	// Generate runs a single request. When req.Schema is set the provider
	// asks the model for JSON matching it and validates the reply before
	// returning; Content is then the validated JSON document.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model the provider sends requests to.
	ModelID() string
}

// Request is a single-turn or multi-turn prompt.
type Request struct {
	// System sets the model's role and output rules.
	System string

	// Messages is the conversation. Question generation sends one user
	// message describing the topic.
	Messages []Message

	// Schema, when set, constrains the reply to JSON of this shape using
	// the provider's native structured output support.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema document.
type Schema struct {
	// Name is a kebab-case identifier, e.g. "quiz-question-set". It names
	// the schema for OpenAI and keys the compiled-schema cache.
	Name string

	Description string

	// Definition is the JSON Schema itself.
	Definition map[string]any
}

// Response is the model's reply.
type Response struct {
	// Content is the reply body: validated JSON when a Schema was given,
	// otherwise the raw text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request, which can differ
	// from ModelID when a friendly alias was configured.
	Model string

	// StopReason is one of "end", "max_tokens" or "error".
	StopReason string
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
