package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// RecordEvent stores one graded question record of a study session.
type RecordEvent struct {
	ent.Schema
}

func (RecordEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (RecordEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.Int("record_index").
			Comment("Zero-based position of the record in the session"),
		field.Text("question"),
		field.Text("answer"),
		field.Text("feedback"),
		field.Bool("is_correct").
			Optional().
			Nillable().
			Comment("Null when the grader gave no verdict"),
	}
}

func (RecordEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
