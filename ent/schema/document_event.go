package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DocumentEvent records a document attached to a study session.
type DocumentEvent struct {
	ent.Schema
}

func (DocumentEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (DocumentEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.String("name"),
		field.String("content_type").
			Default(""),
		field.Int64("size").
			Default(0),
	}
}

func (DocumentEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("name"),
	}
}
