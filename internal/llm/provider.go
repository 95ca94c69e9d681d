package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction every LLM-backed component talks to.
type Provider interface {
	// Generate sends the request and returns the model output. When
	// req.Schema is set the provider asks for structured output and
	// validates it before returning.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes one completion call.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation so far, oldest first. Question
	// generation and grading send a single user message; the chat
	// assistant sends its whole history.
	Messages []Message

	// Schema, when set, constrains the response to JSON matching it.
	Schema *Schema

	// Model overrides the provider's configured model for this call.
	// Friendly names are resolved the same way as in the config.
	Model string

	MaxTokens int

	// Temperature in [0, 1]. Zero lets the provider use its default.
	Temperature float64
}

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema the response must satisfy.
type Schema struct {
	// Name is a kebab-case identifier, e.g. "study-question". Used as the
	// schema name for OpenAI and as the cache key for validation.
	Name string

	Description string

	Definition map[string]any
}

// Response holds the model output.
type Response struct {
	// Content is the validated JSON object when a Schema was requested,
	// otherwise the raw reply text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Text returns Content as plain text, for requests made without a Schema.
func (r *Response) Text() string {
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
