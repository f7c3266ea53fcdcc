// Package types defines the diff structures produced by comparing a table
// snapshot against its edited working set.
package types

import "github.com/tableplan/tableplan/core/schema"

// TableDiff represents all differences between a table snapshot and its
// working set, partitioned by entity kind.
//
// Columns carry full entities because statement emission needs the original
// name, type and length, not just the identity. Index, foreign key and
// trigger entries likewise carry the entity so additions can be rendered
// without a second lookup.
type TableDiff struct {
	// ColumnsAdded contains working-set columns whose id has no snapshot
	// counterpart.
	ColumnsAdded []schema.Column `json:"columns_added"`

	// ColumnsRemoved contains snapshot columns whose id is absent from the
	// working set (potentially dangerous - data loss).
	ColumnsRemoved []schema.Column `json:"columns_removed"`

	// ColumnsModified contains columns present on both sides whose name,
	// type, length, nullability or auto-increment flag differ. All changed
	// attributes fold into one entry, and later into one CHANGE COLUMN.
	ColumnsModified []ColumnDiff `json:"columns_modified"`

	// UniqueToggles contains columns whose unique flag flipped. Uniqueness
	// is compared independently of the other column attributes and is
	// emitted as its own index create/drop.
	UniqueToggles []UniqueToggle `json:"unique_toggles"`

	IndexesAdded   []schema.Index `json:"indexes_added"`
	IndexesRemoved []schema.Index `json:"indexes_removed"`

	ForeignKeysAdded   []schema.ForeignKey `json:"foreign_keys_added"`
	ForeignKeysRemoved []schema.ForeignKey `json:"foreign_keys_removed"`

	TriggersAdded   []schema.Trigger `json:"triggers_added"`
	TriggersRemoved []schema.Trigger `json:"triggers_removed"`
}

// ColumnDiff represents attribute changes on one column that exists in both
// the snapshot and the working set.
type ColumnDiff struct {
	// Old is the snapshot column, New the working-set column. Both share
	// the same surrogate id.
	Old schema.Column `json:"old"`
	New schema.Column `json:"new"`

	// Changes maps change types to their old->new value transitions,
	// e.g. "type": "VARCHAR -> TEXT". Used for reporting; emission uses
	// Old and New directly.
	Changes map[string]string `json:"changes"`
}

// UniqueToggle records a flipped unique flag on a column. Column is the
// working-set column, so OriginalName is available for the best-effort
// DROP INDEX name.
type UniqueToggle struct {
	Column  schema.Column `json:"column"`
	Enabled bool          `json:"enabled"`
}

// HasChanges returns true if the diff contains any change requiring DDL.
func (d *TableDiff) HasChanges() bool {
	return d.hasColumnChanges() ||
		d.hasIndexChanges() ||
		d.hasForeignKeyChanges() ||
		d.hasTriggerChanges()
}

func (d *TableDiff) hasColumnChanges() bool {
	return len(d.ColumnsAdded) > 0 ||
		len(d.ColumnsRemoved) > 0 ||
		len(d.ColumnsModified) > 0 ||
		len(d.UniqueToggles) > 0
}

func (d *TableDiff) hasIndexChanges() bool {
	return len(d.IndexesAdded) > 0 ||
		len(d.IndexesRemoved) > 0
}

func (d *TableDiff) hasForeignKeyChanges() bool {
	return len(d.ForeignKeysAdded) > 0 ||
		len(d.ForeignKeysRemoved) > 0
}

func (d *TableDiff) hasTriggerChanges() bool {
	return len(d.TriggersAdded) > 0 ||
		len(d.TriggersRemoved) > 0
}
