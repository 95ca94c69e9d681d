package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	SessionID string    // record, document and session events only
	Purpose   string    // LLM events only
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// RecordEventData captures one graded question record.
type RecordEventData struct {
	SessionID string
	Index     int
	Question  string
	Answer    string
	Feedback  string
	IsCorrect *bool
}

// RecordEvent is a stored graded record.
type RecordEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RecordEventData
}

// RecordStats aggregates stored records.
type RecordStats struct {
	Sessions  int
	Total     int
	Correct   int
	Incorrect int
}

// DocumentEventData captures one document ingestion.
type DocumentEventData struct {
	SessionID   string
	Name        string
	ContentType string
	Size        int64
}

// Session event actions.
const (
	SessionStarted = "start"
	SessionEnded   = "end"
)

// SessionEventData captures a session lifecycle transition. Totals are set
// on SessionEnded.
type SessionEventData struct {
	SessionID    string
	Action       string
	Total        int
	Correct      int
	DurationSecs int
}

// SessionEvent is a stored session lifecycle event.
type SessionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// EventRepo provides append and query access to the audit log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// AppendRecord records a graded question record.
	AppendRecord(ctx context.Context, data RecordEventData) error

	// QueryRecords returns graded records, newest first.
	QueryRecords(ctx context.Context, opts QueryOpts) ([]RecordEvent, error)

	// RecordStats aggregates graded records across all sessions.
	RecordStats(ctx context.Context) (RecordStats, error)

	// AppendDocument records a document ingestion.
	AppendDocument(ctx context.Context, data DocumentEventData) error

	// DocumentIngested reports whether a document with the same name, type
	// and size was ingested before.
	DocumentIngested(ctx context.Context, name, contentType string, size int64) (bool, error)

	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QuerySessionEvents returns session events, newest first.
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)

	// Reset deletes every event and restarts the sequence.
	Reset(ctx context.Context) error
}
