package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.insert(ctx, sessionEventsTable,
		[]string{"session_id", "action", "total", "correct", "duration_secs"},
		[]any{data.SessionID, data.Action, data.Total, data.Correct, data.DurationSecs})
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	sel := applyOpts(builder().
		Select("id", "sequence", "timestamp", "session_id", "action", "total", "correct", "duration_secs").
		From(entsql.Table(sessionEventsTable)), opts, true)

	var events []SessionEvent
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var e SessionEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.Action,
			&e.Total, &e.Correct, &e.DurationSecs); err != nil {
			return fmt.Errorf("scan session event: %w", err)
		}
		events = append(events, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	return events, nil
}

// Reset deletes every event in one transaction and restarts the sequence.
func (r *eventRepo) Reset(ctx context.Context) error {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	for _, t := range Tables {
		q, args := builder().Delete(t.Name).Query()
		if err := tx.Exec(ctx, q, args, nil); err != nil {
			tx.Rollback()
			return fmt.Errorf("clear %s: %w", t.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return r.seq.reset(ctx)
}
