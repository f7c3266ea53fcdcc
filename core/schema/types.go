// Package schema defines the entity model for a single table under edit:
// columns, indexes, foreign keys and triggers, plus the snapshot/working-set
// pair that the change-plan compiler diffs.
//
// Entities are immutable by convention. Editing replaces entries in the
// working-set collection; snapshot entities are never mutated after load.
package schema

// Index types as reported by introspection or chosen by the editor.
// Type is an open string because introspection reports access-method names
// (BTREE, HASH, ...) for plain indexes.
const (
	IndexTypeUnique   = "UNIQUE"
	IndexTypeFulltext = "FULLTEXT"
)

// Trigger timing values.
const (
	TimingBefore = "BEFORE"
	TimingAfter  = "AFTER"
)

// Trigger event values.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// TableRef identifies the table a change plan is compiled for. Database may
// be empty, in which case statements reference the bare table name.
type TableRef struct {
	Database string `json:"database"`
	Table    string `json:"table"`
}

// Column represents a single table column.
//
// ID is a surrogate key assigned exactly once, when the column enters the
// working set: at load time from introspection or at creation time by the
// editor. It is never reassigned, so a rename mutates Name but keeps ID.
//
// OriginalName is the name the column had at load time. It is the only valid
// source identifier for CHANGE COLUMN: if a column is renamed twice before a
// push, the server has never seen any intermediate name.
type Column struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	OriginalName  string  `json:"original_name"`
	DataType      string  `json:"data_type"`
	Length        *int64  `json:"length,omitempty"`
	DefaultValue  *string `json:"default_value,omitempty"`
	Nullable      bool    `json:"nullable"`
	PrimaryKey    bool    `json:"primary_key"`
	AutoIncrement bool    `json:"auto_increment"`
	Unique        bool    `json:"unique"`
}

// Index represents a grouped index entity. Column order is significant and is
// preserved in emitted DDL. Identity is the index name; renaming an index is
// modeled as drop+create.
type Index struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Unique  bool     `json:"unique"`
	Columns []string `json:"columns"`
}

// ForeignKey represents a single-column foreign key constraint, identified by
// its constraint name.
type ForeignKey struct {
	ConstraintName   string `json:"constraint_name"`
	ColumnName       string `json:"column_name"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
}

// Trigger represents a row trigger. Body is free-form statement text, opaque
// to the compiler.
type Trigger struct {
	Name   string `json:"name"`
	Timing string `json:"timing"`
	Event  string `json:"event"`
	Body   string `json:"body"`
}

// TableState is one side of a diff: the full structure of a table as loaded
// from introspection (snapshot) or as edited by the user (working set).
type TableState struct {
	Columns     []Column     `json:"columns"`
	Indexes     []Index      `json:"indexes"`
	ForeignKeys []ForeignKey `json:"foreign_keys"`
	Triggers    []Trigger    `json:"triggers"`
}

// Clone returns a deep copy of the state. The working set is always seeded
// with a clone so that later edits cannot reach back into the snapshot.
func (s *TableState) Clone() *TableState {
	if s == nil {
		return nil
	}
	out := &TableState{
		Columns:     make([]Column, len(s.Columns)),
		Indexes:     make([]Index, len(s.Indexes)),
		ForeignKeys: make([]ForeignKey, len(s.ForeignKeys)),
		Triggers:    make([]Trigger, len(s.Triggers)),
	}
	for i, c := range s.Columns {
		out.Columns[i] = c.clone()
	}
	for i, idx := range s.Indexes {
		out.Indexes[i] = idx
		out.Indexes[i].Columns = append([]string(nil), idx.Columns...)
	}
	copy(out.ForeignKeys, s.ForeignKeys)
	copy(out.Triggers, s.Triggers)
	return out
}

func (c Column) clone() Column {
	if c.Length != nil {
		v := *c.Length
		c.Length = &v
	}
	if c.DefaultValue != nil {
		v := *c.DefaultValue
		c.DefaultValue = &v
	}
	return c
}

// ColumnByID returns the column with the given surrogate id, or false when no
// such column exists in the state.
func (s *TableState) ColumnByID(id int64) (Column, bool) {
	for _, c := range s.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// IndexByName returns the index with the given name, or false.
func (s *TableState) IndexByName(name string) (Index, bool) {
	for _, idx := range s.Indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return Index{}, false
}
