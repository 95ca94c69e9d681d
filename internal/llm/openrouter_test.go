package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestOpenRouter serves a single chat completion whose message content is
// reply, and records the request body it received.
func newTestOpenRouter(t *testing.T, reply string) (*OpenRouterProvider, *map[string]any) {
	t.Helper()
	got := map[string]any{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "gen-test",
			"object":  "chat.completion",
			"model":   got["model"],
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": reply}, "finish_reason": "stop"}},
			"usage":   map[string]any{"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42},
		})
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "anthropic/claude-3-haiku",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return p, &got
}

func gradingRequest() Request {
	return Request{
		System:    "You grade a learner's answer to a study question.",
		Messages:  []Message{{Role: RoleUser, Content: "Question: What does a solar panel produce?\nAnswer: electricity"}},
		Schema:    verdictSchema(),
		MaxTokens: 256,
	}
}

func TestOpenRouter_GradesAnswer(t *testing.T) {
	p, got := newTestOpenRouter(t, `{"correct":true,"feedback":"Right, it produces direct current."}`)

	resp, err := p.Generate(context.Background(), gradingRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"correct":true,"feedback":"Right, it produces direct current."}`, string(resp.Content))
	assert.Equal(t, 42, resp.Usage.TotalTokens)

	// Vendor-prefixed model ids go upstream untouched.
	assert.Equal(t, "anthropic/claude-3-haiku", (*got)["model"])
	format, _ := (*got)["response_format"].(map[string]any)
	schema, _ := format["json_schema"].(map[string]any)
	assert.Equal(t, "answer-verdict", schema["name"])
}

func TestOpenRouter_MalformedVerdictNamesSchema(t *testing.T) {
	p, _ := newTestOpenRouter(t, `{"correct":"maybe"}`)

	_, err := p.Generate(context.Background(), gradingRequest())
	var invErr *ErrInvalidResponse
	require.True(t, errors.As(err, &invErr), "got %v", err)
	assert.Equal(t, "answer-verdict", invErr.Schema)
	assert.JSONEq(t, `{"correct":"maybe"}`, string(invErr.Content))
}

func TestOpenRouter_ChatReplyIsNotValidated(t *testing.T) {
	p, _ := newTestOpenRouter(t, "A solar panel turns sunlight into electricity.")

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "What is this document about?"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "A solar panel turns sunlight into electricity.", string(resp.Content))
}

func TestOpenRouter_MissingKey(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "openai/gpt-4o-mini"})
	var missing *ErrMissingAPIKey
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, "LEARNASSIST_OPENROUTER_API_KEY", missing.Var)
}
