// Package study assembles the per-session collaborators shared by the HTTP
// API and the terminal UI: question source, grader, summariser and the
// audit trail written to the event store.
package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/learnassist/internal/config"
	"github.com/abhisek/learnassist/internal/grading"
	"github.com/abhisek/learnassist/internal/llm"
	"github.com/abhisek/learnassist/internal/questions"
	"github.com/abhisek/learnassist/internal/session"
	"github.com/abhisek/learnassist/internal/store"
)

// ErrProviderRequired is returned when an LLM-backed source is selected but
// no provider is configured.
var ErrProviderRequired = errors.New("llm provider required")

// Factory builds a Kit for every new session.
type Factory struct {
	questionSource string
	grader         string
	provider       llm.Provider
	questionCfg    questions.Config
	graderCfg      grading.GraderConfig
}

// NewFactory validates cfg against provider. provider may be nil when
// neither questions nor grading use the LLM.
func NewFactory(cfg config.Config, provider llm.Provider) (*Factory, error) {
	if provider == nil && (cfg.QuestionSource == "llm" || cfg.Grader == "llm") {
		return nil, fmt.Errorf("question source %q, grader %q: %w", cfg.QuestionSource, cfg.Grader, ErrProviderRequired)
	}
	return &Factory{
		questionSource: cfg.QuestionSource,
		grader:         cfg.Grader,
		provider:       provider,
		questionCfg:    questions.DefaultConfig(),
		graderCfg:      grading.DefaultGraderConfig(),
	}, nil
}

// Provider returns the configured LLM provider, or nil.
func (f *Factory) Provider() llm.Provider {
	return f.provider
}

// Summarizer returns the document summariser: the LLM one when a provider
// is available, the canned overview otherwise.
func (f *Factory) Summarizer() questions.Summarizer {
	if f.provider == nil {
		return questions.CannedSummary{}
	}
	return questions.NewLLMSummarizer(f.provider, f.questionCfg)
}

// NewKit builds fresh sources for one session. LLM sources keep per-session
// state (asked questions, document context) and must not be shared.
func (f *Factory) NewKit() *Kit {
	k := &Kit{}

	switch f.questionSource {
	case "llm":
		src := questions.NewLLMSource(f.provider, f.questionCfg)
		k.Questions = src
		k.llmQuestions = src
	default:
		k.Questions = questions.NewRandom(nil)
	}

	switch f.grader {
	case "llm":
		g := grading.NewLLMGrader(f.provider, f.graderCfg)
		k.Feedback = g
		k.llmGrader = g
	default:
		k.Feedback = grading.NewCoinFlip()
	}
	return k
}

// Kit is the set of sources driving one session.
type Kit struct {
	Questions session.QuestionSource
	Feedback  session.FeedbackSource

	llmQuestions *questions.LLMSource
	llmGrader    *grading.LLMGrader
}

// Sources returns the bundle for one pass with the given answer text.
func (k *Kit) Sources(answer string) session.Sources {
	return session.Sources{
		Questions: k.Questions,
		Answers:   session.StaticAnswer(answer),
		Feedback:  k.Feedback,
	}
}

// SetDocument hands the document summary to sources that use it.
func (k *Kit) SetDocument(name, summary string) {
	if k.llmQuestions != nil {
		k.llmQuestions.SetDocument(name, summary)
	}
	if k.llmGrader != nil {
		k.llmGrader.Context = summary
	}
}

// Recorder writes session activity to the event store. A nil repo turns
// every call into a no-op; store failures are logged, never returned, so
// the audit trail cannot break a session.
type Recorder struct {
	events store.EventRepo
}

// NewRecorder creates a Recorder over events, which may be nil.
func NewRecorder(events store.EventRepo) *Recorder {
	return &Recorder{events: events}
}

// Started records the start of a session.
func (r *Recorder) Started(ctx context.Context, state *session.SessionState) {
	if r.events == nil {
		return
	}
	err := r.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: state.ID,
		Action:    store.SessionStarted,
	})
	if err != nil {
		log.Warn().Err(err).Str("session_id", state.ID).Msg("record session start")
	}
}

// Ended records the end of a session with its final totals.
func (r *Recorder) Ended(ctx context.Context, state *session.SessionState) {
	if r.events == nil {
		return
	}
	t := session.RecomputeTotals(state)
	err := r.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:    state.ID,
		Action:       store.SessionEnded,
		Total:        t.Total,
		Correct:      t.Correct,
		DurationSecs: int(timeSince(state.CreatedAt).Seconds()),
	})
	if err != nil {
		log.Warn().Err(err).Str("session_id", state.ID).Msg("record session end")
	}
}

// Committed records a graded question at index.
func (r *Recorder) Committed(ctx context.Context, state *session.SessionState, index int, rec *session.QuestionRecord) {
	if r.events == nil {
		return
	}
	err := r.events.AppendRecord(ctx, store.RecordEventData{
		SessionID: state.ID,
		Index:     index,
		Question:  rec.Question,
		Answer:    rec.Answer,
		Feedback:  rec.Feedback,
		IsCorrect: rec.IsCorrect,
	})
	if err != nil {
		log.Warn().Err(err).Str("session_id", state.ID).Int("index", index).Msg("record question")
	}
}

// Document records the ingestion of doc. Re-uploads of a document the store
// has already seen are skipped.
func (r *Recorder) Document(ctx context.Context, state *session.SessionState, doc session.DocumentInfo) {
	if r.events == nil {
		return
	}
	seen, err := r.events.DocumentIngested(ctx, doc.Name, doc.Type, doc.Size)
	if err != nil {
		log.Warn().Err(err).Str("document", doc.Name).Msg("check document ingestion")
		return
	}
	if seen {
		log.Debug().Str("document", doc.Name).Msg("document already ingested")
		return
	}
	err = r.events.AppendDocument(ctx, store.DocumentEventData{
		SessionID:   state.ID,
		Name:        doc.Name,
		ContentType: doc.Type,
		Size:        doc.Size,
	})
	if err != nil {
		log.Warn().Err(err).Str("document", doc.Name).Msg("record document")
	}
}
