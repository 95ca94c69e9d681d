// Package assistant keeps a chat conversation with an LLM provider.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/learnassist/internal/llm"
)

// DefaultSystemMessage is used when Options.SystemMessage is empty.
const DefaultSystemMessage = "You are a helpful assistant."

// Options configures the conversation.
type Options struct {
	SystemMessage string

	// Model overrides the provider's model. Empty keeps it.
	Model string

	Temperature float64
	MaxTokens   int
}

// Assistant holds the conversation history and sends it to the provider
// on every turn. It is safe for concurrent use; turns are serialized.
type Assistant struct {
	provider llm.Provider

	mu      sync.Mutex
	opts    Options
	history []Message
}

// New creates an Assistant whose history starts with the system message.
func New(provider llm.Provider, opts Options) (*Assistant, error) {
	if provider == nil {
		return nil, &ConfigurationError{Err: errors.New("no LLM provider")}
	}
	if opts.SystemMessage == "" {
		opts.SystemMessage = DefaultSystemMessage
		log.Info().Str("system_message", opts.SystemMessage).Msg("using default system message")
	}

	return &Assistant{
		provider: provider,
		opts:     opts,
		history:  []Message{NewMessage(llm.RoleSystem, opts.SystemMessage)},
	}, nil
}

// NewFromConfig builds the provider from cfg and returns an Assistant on
// top of it. A missing API key yields a *ConfigurationError.
func NewFromConfig(ctx context.Context, cfg llm.Config, events llm.EventLogger, opts Options) (*Assistant, error) {
	provider, err := llm.NewProvider(ctx, cfg, events)
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	return New(provider, opts)
}

// Chat appends text as a user message, sends the whole history and
// returns the reply, which is appended too. When the provider fails the
// user message stays in the history without a reply.
func (a *Assistant) Chat(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", ErrEmptyMessage
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, NewMessage(llm.RoleUser, text))

	resp, err := a.provider.Generate(llm.WithPurpose(ctx, llm.PurposeChat), llm.Request{
		Messages:    a.prepLocked(),
		Model:       a.opts.Model,
		MaxTokens:   a.opts.MaxTokens,
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	reply := NewMessage(llm.RoleAssistant, resp.Text())
	a.history = append(a.history, reply)
	return reply.Content, nil
}

// Configure replaces the completion options. The system message already
// in the history is kept.
func (a *Assistant) Configure(opts Options) {
	a.mu.Lock()
	defer a.mu.Unlock()
	opts.SystemMessage = a.opts.SystemMessage
	a.opts = opts
}

// Options returns the current options.
func (a *Assistant) Options() Options {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.opts
}

// History returns a copy of the conversation so far.
func (a *Assistant) History() []Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Message, len(a.history))
	copy(out, a.history)
	return out
}

// PrepHistory returns the history in the form sent to the provider.
func (a *Assistant) PrepHistory() []llm.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prepLocked()
}

func (a *Assistant) prepLocked() []llm.Message {
	msgs := make([]llm.Message, len(a.history))
	for i, m := range a.history {
		msgs[i] = m.Prep()
	}
	return msgs
}

// Reset drops every turn after the system message.
func (a *Assistant) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = a.history[:1]
}
