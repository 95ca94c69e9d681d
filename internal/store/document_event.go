package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendDocument(ctx context.Context, data DocumentEventData) error {
	err := r.insert(ctx, documentEventsTable,
		[]string{"session_id", "name", "content_type", "size"},
		[]any{data.SessionID, data.Name, data.ContentType, data.Size})
	if err != nil {
		return fmt.Errorf("save document event: %w", err)
	}
	return nil
}

func (r *eventRepo) DocumentIngested(ctx context.Context, name, contentType string, size int64) (bool, error) {
	sel := builder().Select(entsql.Count("*")).
		From(entsql.Table(documentEventsTable)).
		Where(entsql.And(
			entsql.EQ("name", name),
			entsql.EQ("content_type", contentType),
			entsql.EQ("size", size),
		))

	var n int
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	if err != nil {
		return false, fmt.Errorf("query document events: %w", err)
	}
	return n > 0, nil
}
