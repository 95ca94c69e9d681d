package store

import (
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/learnassist/ent/schema"
)

// Table names.
const (
	llmRequestEventsTable = "llm_request_events"
	recordEventsTable     = "record_events"
	documentEventsTable   = "document_events"
	sessionEventsTable    = "session_events"
)

// tableFor builds the migrate table of an ent schema: an auto-increment
// id followed by the mixin and schema fields, plus their indexes.
// Function defaults such as time.Now are left to the insert code.
func tableFor(name string, s ent.Interface) *schema.Table {
	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := &schema.Table{
		Name:       name,
		Columns:    []*schema.Column{id},
		PrimaryKey: []*schema.Column{id},
	}

	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	byName := make(map[string]*schema.Column, len(fields))
	for _, f := range fields {
		d := f.Descriptor()
		col := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional,
			Size:     int64(d.Size),
		}
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			col.Default = d.Default
		}
		t.Columns = append(t.Columns, col)
		byName[d.Name] = col
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		ix := &schema.Index{
			Name:   name + "_" + strings.Join(d.Fields, "_"),
			Unique: d.Unique,
		}
		for _, f := range d.Fields {
			if col, ok := byName[f]; ok {
				ix.Columns = append(ix.Columns, col)
			}
		}
		t.Indexes = append(t.Indexes, ix)
	}
	return t
}

var (
	// LLMRequestEventsTable records every LLM API call.
	LLMRequestEventsTable = tableFor(llmRequestEventsTable, entschema.LLMRequestEvent{})

	// RecordEventsTable records graded question records.
	RecordEventsTable = tableFor(recordEventsTable, entschema.RecordEvent{})

	// DocumentEventsTable records document ingestions.
	DocumentEventsTable = tableFor(documentEventsTable, entschema.DocumentEvent{})

	// SessionEventsTable records session start and end with final totals.
	SessionEventsTable = tableFor(sessionEventsTable, entschema.SessionEvent{})

	// Tables holds every table the store migrates.
	Tables = []*schema.Table{
		LLMRequestEventsTable,
		RecordEventsTable,
		DocumentEventsTable,
		SessionEventsTable,
	}
)
