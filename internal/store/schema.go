package store

import (
	"context"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/hayer/ent/schema"
)

const (
	attemptEventsTable    = "attempt_events"
	learnerSnapshotsTable = "learner_snapshots"
)

// sqlite builds dialect-aware statements for the store's tables.
var sqlite = entsql.Dialect(dialect.SQLite)

// tables returns the migration tables derived from the ent schema
// definitions.
func tables() []*schema.Table {
	return []*schema.Table{
		tableFor(attemptEventsTable, entschema.AttemptEvent{}),
		tableFor(learnerSnapshotsTable, entschema.LearnerSnapshot{}),
	}
}

// tableFor lays out one table from an ent schema: an auto-increment id
// followed by the mixin fields and the schema's own fields.
func tableFor(name string, s ent.Interface) *schema.Table {
	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := schema.NewTable(name).AddPrimary(id)

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		d := f.Descriptor()
		t.AddColumn(&schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
		})
	}

	prefix := strings.ReplaceAll(name, "_", "")
	for _, ix := range indexes {
		d := ix.Descriptor()
		t.AddIndex(prefix+"_"+strings.Join(d.Fields, "_"), d.Unique, d.Fields)
	}
	return t
}

// migrate creates or upgrades the store's tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables()...)
}
