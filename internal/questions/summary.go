package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/learnassist/internal/llm"
)

// Document is an uploaded study document.
type Document struct {
	Name string
	Type string
	Text string
}

// Summarizer produces the overview shown next to the questions.
type Summarizer interface {
	Summarize(ctx context.Context, doc Document) (string, error)
}

// CannedSummaryText is the fixed overview returned by CannedSummary.
const CannedSummaryText = "The document provides an overview of recent advancements in renewable energy technologies. " +
	"It explores innovative approaches to solar, wind, and hydroelectric power generation, " +
	"highlighting their potential to mitigate climate change and meet growing energy demands sustainably. " +
	"Case studies illustrate successful implementation strategies and future prospects for renewable energy integration."

// CannedSummary ignores the document and returns CannedSummaryText.
type CannedSummary struct{}

func (CannedSummary) Summarize(context.Context, Document) (string, error) {
	return CannedSummaryText, nil
}

// LLMSummarizer summarises document text with an LLM. Documents without
// text fall back to Fallback.
type LLMSummarizer struct {
	provider llm.Provider
	cfg      Config
	Fallback Summarizer
}

// NewLLMSummarizer creates an LLMSummarizer that falls back to
// CannedSummary.
func NewLLMSummarizer(provider llm.Provider, cfg Config) *LLMSummarizer {
	return &LLMSummarizer{provider: provider, cfg: cfg, Fallback: CannedSummary{}}
}

type summaryOutput struct {
	Summary string `json:"summary"`
}

func (s *LLMSummarizer) Summarize(ctx context.Context, doc Document) (string, error) {
	text := strings.TrimSpace(doc.Text)
	if text == "" {
		return s.Fallback.Summarize(ctx, doc)
	}
	if s.cfg.MaxDocumentChars > 0 && len(text) > s.cfg.MaxDocumentChars {
		text = text[:s.cfg.MaxDocumentChars]
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeSummary)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: summarySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf("Document: %s\n\n%s", doc.Name, text)},
		},
		Schema:      SummarySchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("document summary: %w", err)
	}

	var out summaryOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse summary response: %w", err)
	}
	return strings.TrimSpace(out.Summary), nil
}
