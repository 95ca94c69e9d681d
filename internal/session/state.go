package session

import (
	"time"

	"github.com/google/uuid"
)

// Direction is a navigation step between question indices.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// DocumentInfo describes the study document attached to a session.
type DocumentInfo struct {
	Name string
	Type string
	Size int64
}

// SessionState tracks one learner session. It lives for the duration of the
// session and is discarded when the session ends; nothing here is restored
// after a restart.
type SessionState struct {
	// ID identifies the session to transports (HTTP, event log).
	ID string

	// Records maps question index to its record. Indices may be sparse and
	// only complete records are inserted (see Commit).
	Records map[int]*QuestionRecord

	// CurrentIndex points at the question being worked on.
	CurrentIndex int

	// Totals is derived from Records by RecomputeTotals.
	Totals Totals

	// Document is the uploaded study material, nil until one is attached.
	Document *DocumentInfo

	CreatedAt time.Time

	// pending holds the not-yet-committed record for an index so that a
	// question survives between passes before the cycle is complete.
	pending map[int]*QuestionRecord
}

// NewSessionState creates an empty session positioned at index 0.
func NewSessionState() *SessionState {
	return &SessionState{
		ID:        uuid.NewString(),
		Records:   make(map[int]*QuestionRecord),
		CreatedAt: time.Now(),
		pending:   make(map[int]*QuestionRecord),
	}
}

// GetRecord returns the record at index, or a fresh all-unset record when
// none has been committed. It never inserts into Records.
func GetRecord(state *SessionState, index int) *QuestionRecord {
	if r, ok := state.Records[index]; ok {
		return r
	}
	return &QuestionRecord{}
}

// Commit stores record at index once it is complete and the index is not
// taken yet, then refreshes Totals. It reports whether the record was
// inserted.
func Commit(state *SessionState, index int, record *QuestionRecord) bool {
	if !IsComplete(record) {
		return false
	}
	if _, exists := state.Records[index]; exists {
		return false
	}
	if state.Records == nil {
		state.Records = make(map[int]*QuestionRecord)
	}
	state.Records[index] = record
	delete(state.pending, index)
	RecomputeTotals(state)
	return true
}

// GoTo moves CurrentIndex by delta, clamped at zero. Callers decide whether
// a move is allowed; see CanAdvance and CanGoBack.
func GoTo(state *SessionState, delta Direction) {
	next := state.CurrentIndex + int(delta)
	if next < 0 {
		next = 0
	}
	state.CurrentIndex = next
}

// CanAdvance reports whether forward navigation is permitted: the record at
// the current index must be complete.
func CanAdvance(state *SessionState) bool {
	return IsComplete(currentRecord(state))
}

// CanGoBack reports whether backward navigation is permitted: not already at
// index 0, and the current record complete.
func CanGoBack(state *SessionState) bool {
	return state.CurrentIndex != 0 && IsComplete(currentRecord(state))
}

// Current returns the record being worked on: the committed one, the
// in-progress one, or a fresh record.
func Current(state *SessionState) *QuestionRecord {
	return currentRecord(state)
}

func currentRecord(state *SessionState) *QuestionRecord {
	if r, ok := state.Records[state.CurrentIndex]; ok {
		return r
	}
	if r, ok := state.pending[state.CurrentIndex]; ok {
		return r
	}
	return &QuestionRecord{}
}

// SetDocument attaches doc to the session. It returns true when doc differs
// from the document already attached, i.e. a new upload that needs ingesting.
func SetDocument(state *SessionState, doc DocumentInfo) bool {
	if state.Document != nil && *state.Document == doc {
		return false
	}
	d := doc
	state.Document = &d
	return true
}

// Clone returns a deep copy of state, including in-progress records, so a
// pass can run on the copy while the original is still being read.
func (state *SessionState) Clone() *SessionState {
	c := *state
	c.Records = make(map[int]*QuestionRecord, len(state.Records))
	for i, r := range state.Records {
		rc := *r
		c.Records[i] = &rc
	}
	c.pending = make(map[int]*QuestionRecord, len(state.pending))
	for i, r := range state.pending {
		rc := *r
		c.pending[i] = &rc
	}
	if state.Document != nil {
		d := *state.Document
		c.Document = &d
	}
	return &c
}
