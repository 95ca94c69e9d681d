package session

import (
	"sort"
	"time"
)

// IndexedRecord is a committed record with its question index.
type IndexedRecord struct {
	Index  int
	Record QuestionRecord
}

// Summary holds the data displayed when a session ends.
type Summary struct {
	SessionID string
	Duration  time.Duration
	Totals    Totals
	Accuracy  float64
	Document  *DocumentInfo
	Records   []IndexedRecord
}

// BuildSummary creates a Summary from the committed records of state,
// ordered by index.
func BuildSummary(state *SessionState, now time.Time) *Summary {
	totals := RecomputeTotals(state)

	records := make([]IndexedRecord, 0, len(state.Records))
	for i, r := range state.Records {
		records = append(records, IndexedRecord{Index: i, Record: *r})
	}
	sort.Slice(records, func(a, b int) bool { return records[a].Index < records[b].Index })

	var doc *DocumentInfo
	if state.Document != nil {
		d := *state.Document
		doc = &d
	}

	return &Summary{
		SessionID: state.ID,
		Duration:  now.Sub(state.CreatedAt),
		Totals:    totals,
		Accuracy:  totals.Accuracy(),
		Document:  doc,
		Records:   records,
	}
}
