package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendRecord(ctx context.Context, data RecordEventData) error {
	var correct any
	if data.IsCorrect != nil {
		correct = *data.IsCorrect
	}
	err := r.insert(ctx, recordEventsTable,
		[]string{"session_id", "record_index", "question", "answer", "feedback", "is_correct"},
		[]any{data.SessionID, data.Index, data.Question, data.Answer, data.Feedback, correct})
	if err != nil {
		return fmt.Errorf("save record event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRecords(ctx context.Context, opts QueryOpts) ([]RecordEvent, error) {
	sel := applyOpts(builder().
		Select("id", "sequence", "timestamp", "session_id", "record_index", "question", "answer", "feedback", "is_correct").
		From(entsql.Table(recordEventsTable)), opts, true)

	var records []RecordEvent
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			e       RecordEvent
			correct sql.NullBool
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.Index,
			&e.Question, &e.Answer, &e.Feedback, &correct); err != nil {
			return fmt.Errorf("scan record event: %w", err)
		}
		if correct.Valid {
			v := correct.Bool
			e.IsCorrect = &v
		}
		records = append(records, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query record events: %w", err)
	}
	return records, nil
}

// RecordStats counts records the same way session totals do: a record is
// correct only when is_correct is true.
func (r *eventRepo) RecordStats(ctx context.Context) (RecordStats, error) {
	sel := builder().Select(
		"COUNT(DISTINCT session_id)",
		entsql.Count("*"),
		"COALESCE(SUM(CASE WHEN is_correct = 1 THEN 1 ELSE 0 END), 0)",
	).From(entsql.Table(recordEventsTable))

	var st RecordStats
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		return rows.Scan(&st.Sessions, &st.Total, &st.Correct)
	})
	if err != nil {
		return RecordStats{}, fmt.Errorf("query record stats: %w", err)
	}
	st.Incorrect = st.Total - st.Correct
	return st, nil
}
