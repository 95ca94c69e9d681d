package study

import (
	"context"
	"time"

	"github.com/abhisek/learnassist/internal/session"
)

var timeSince = time.Since

// Pass runs one session pass with answer and records the record in the
// event store when the pass commits it.
func Pass(ctx context.Context, state *session.SessionState, kit *Kit, rec *Recorder, answer string) (*session.QuestionRecord, error) {
	index := state.CurrentIndex
	_, had := state.Records[index]

	r, err := session.Run(ctx, state, kit.Sources(answer))
	if err != nil {
		return r, err
	}
	if committed, ok := state.Records[index]; ok && !had {
		rec.Committed(ctx, state, index, committed)
	}
	return r, nil
}

// Navigate moves the session one step in dir when the guard allows it and
// reports whether it moved. Backward moves use the same completeness guard
// as forward ones.
func Navigate(state *session.SessionState, dir session.Direction) bool {
	switch dir {
	case session.Forward:
		if !session.CanAdvance(state) {
			return false
		}
	case session.Backward:
		if !session.CanGoBack(state) {
			return false
		}
	default:
		return false
	}
	session.GoTo(state, dir)
	return true
}

// ShowProgress reports whether the progress panel is shown: once more than
// one record has been committed.
func ShowProgress(state *session.SessionState) bool {
	return len(state.Records) > 1
}
