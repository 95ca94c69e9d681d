package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/learnassist/internal/llm"
	"github.com/abhisek/learnassist/internal/session"
)

// GraderConfig holds configuration for the LLM grader.
type GraderConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGraderConfig returns sensible defaults.
func DefaultGraderConfig() GraderConfig {
	return GraderConfig{
		MaxTokens:   256,
		Temperature: 0.2,
	}
}

const graderSystemPrompt = `You grade a learner's free-text answer to a study question.

Rules:
- Judge meaning, not wording or spelling.
- Mark the answer correct when it is substantially right, even if incomplete.
- Keep feedback short and encouraging. When the answer is wrong, state the right answer.`

var gradeTemplate = template.Must(template.New("grade").Parse(
	`Question: {{.Question}}
{{if .Context}}
Document context:
{{.Context}}
{{end}}
Learner's answer: {{.Answer}}`))

// LLMGrader grades answers with an LLM. It implements
// session.FeedbackSource.
type LLMGrader struct {
	provider llm.Provider
	cfg      GraderConfig

	// Context, when set, is sent with every request, e.g. the document
	// summary.
	Context string
}

// NewLLMGrader creates an LLM-based grader.
func NewLLMGrader(provider llm.Provider, cfg GraderConfig) *LLMGrader {
	return &LLMGrader{provider: provider, cfg: cfg}
}

type verdictOutput struct {
	Correct  bool   `json:"correct"`
	Feedback string `json:"feedback"`
}

func (g *LLMGrader) Feedback(ctx context.Context, question, answer string) (session.Verdict, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeGrading)

	var msg bytes.Buffer
	err := gradeTemplate.Execute(&msg, struct{ Question, Answer, Context string }{
		Question: question,
		Answer:   answer,
		Context:  strings.TrimSpace(g.Context),
	})
	if err != nil {
		return session.Verdict{}, fmt.Errorf("build grading prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      graderSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: msg.String()}},
		Schema:      VerdictSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return session.Verdict{}, fmt.Errorf("LLM grading failed: %w", err)
	}

	var out verdictOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return session.Verdict{}, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	return session.Verdict{Text: strings.TrimSpace(out.Feedback), Correct: out.Correct}, nil
}
