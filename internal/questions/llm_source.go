package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/learnassist/internal/llm"
)

// Config controls LLMSource and LLMSummarizer.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MaxPriorQuestions caps the dedup list sent with each request.
	MaxPriorQuestions int

	// MaxQuestionLen rejects run-on questions.
	MaxQuestionLen int

	// MaxDocumentChars truncates text sent for summarisation.
	MaxDocumentChars int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         256,
		Temperature:       0.7,
		MaxPriorQuestions: 8,
		MaxQuestionLen:    500,
		MaxDocumentChars:  12000,
	}
}

// ValidationError describes a generated question that was rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid generated question: " + e.Message
}

// LLMSource generates questions about the current document. It remembers
// the questions it produced so the model is told not to repeat them. Use
// one LLMSource per session.
type LLMSource struct {
	provider llm.Provider
	cfg      Config

	mu       sync.Mutex
	document string
	summary  string
	asked    []string
}

// NewLLMSource creates an LLMSource.
func NewLLMSource(provider llm.Provider, cfg Config) *LLMSource {
	return &LLMSource{provider: provider, cfg: cfg}
}

// SetDocument sets the document name and summary questions are asked
// about. The dedup list is kept; the learner may re-upload the same file.
func (s *LLMSource) SetDocument(name, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = name
	s.summary = summary
}

// Asked returns the questions generated so far.
func (s *LLMSource) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.asked))
	copy(out, s.asked)
	return out
}

type questionOutput struct {
	Question string `json:"question"`
	Topic    string `json:"topic"`
}

// Question implements session.QuestionSource.
func (s *LLMSource) Question(ctx context.Context) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestion)

	s.mu.Lock()
	userMsg := buildQuestionMessage(s.document, s.summary, s.asked, s.cfg.MaxPriorQuestions)
	s.mu.Unlock()

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      questionSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      QuestionSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM question generation failed: %w", err)
	}

	var out questionOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("failed to parse LLM response: %w", err)
	}

	q := strings.TrimSpace(out.Question)
	if err := s.validate(q); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.asked = append(s.asked, q)
	s.mu.Unlock()
	return q, nil
}

func (s *LLMSource) validate(q string) error {
	if q == "" {
		return &ValidationError{Message: "question is empty"}
	}
	if s.cfg.MaxQuestionLen > 0 && len(q) > s.cfg.MaxQuestionLen {
		return &ValidationError{Message: fmt.Sprintf("question exceeds %d characters", s.cfg.MaxQuestionLen)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, prev := range s.asked {
		if strings.EqualFold(prev, q) {
			return &ValidationError{Message: "question repeats an earlier one"}
		}
	}
	return nil
}
