// Package editor holds the in-memory editing session for one open table: the
// immutable snapshot taken at load time and the working set the user mutates.
//
// The session is the only place surrogate column ids are assigned. Everything
// downstream (diffing, emission) treats both collections as read-only input.
package editor

import (
	"fmt"

	"github.com/tableplan/tableplan/config"
	"github.com/tableplan/tableplan/core/schema"
	"github.com/tableplan/tableplan/migration/changeplan"
)

// Session is the snapshot/working-set pair for one open table.
//
// The snapshot is taken once, when the session is created, and never mutated.
// All edits replace entries in the working set. Both are discarded when the
// editor closes or a push succeeds and a fresh state is re-loaded.
type Session struct {
	ref      schema.TableRef
	snapshot *schema.TableState
	working  *schema.TableState
	opts     *config.PlanOptions
	nextID   int64
}

// NewSession creates a session from a freshly introspected table state.
//
// Every column is stamped with a surrogate id and its load-time name is
// frozen as OriginalName before the snapshot is taken; the working set starts
// as a deep copy of the snapshot.
func NewSession(ref schema.TableRef, loaded *schema.TableState, opts *config.PlanOptions) *Session {
	if opts == nil {
		opts = config.DefaultPlanOptions()
	}
	s := &Session{
		ref:    ref,
		opts:   opts,
		nextID: 1,
	}

	snapshot := loaded.Clone()
	for i := range snapshot.Columns {
		snapshot.Columns[i].ID = s.nextID
		snapshot.Columns[i].OriginalName = snapshot.Columns[i].Name
		s.nextID++
	}
	s.snapshot = snapshot
	s.working = snapshot.Clone()
	return s
}

// Ref returns the table identifier the session was opened for.
func (s *Session) Ref() schema.TableRef {
	return s.ref
}

// Snapshot returns a copy of the load-time state.
func (s *Session) Snapshot() *schema.TableState {
	return s.snapshot.Clone()
}

// Working returns a copy of the current working set.
func (s *Session) Working() *schema.TableState {
	return s.working.Clone()
}

// Plan compiles the change plan for the current edits. It recomputes from
// scratch on every call; invoking it after each edit is the intended usage.
func (s *Session) Plan() *changeplan.Plan {
	return changeplan.Compile(s.ref, s.snapshot, s.working, s.opts)
}

// Reset discards all edits, re-seeding the working set from the snapshot.
func (s *Session) Reset() {
	s.working = s.snapshot.Clone()
}

// AddColumn adds a new column to the working set and returns its surrogate
// id. The id is assigned here, once, and never reassigned.
func (s *Session) AddColumn(col schema.Column) int64 {
	col.ID = s.nextID
	s.nextID++
	col.OriginalName = col.Name
	s.working.Columns = append(s.working.Columns, col)
	return col.ID
}

// UpdateColumn replaces the working-set column with the same id. The
// column's id and original name are preserved regardless of what the caller
// passes: a rename mutates Name only.
func (s *Session) UpdateColumn(col schema.Column) error {
	for i, existing := range s.working.Columns {
		if existing.ID == col.ID {
			col.OriginalName = existing.OriginalName
			s.working.Columns[i] = col
			return nil
		}
	}
	return fmt.Errorf("no column with id %d in working set", col.ID)
}

// RemoveColumn removes the working-set column with the given id.
func (s *Session) RemoveColumn(id int64) error {
	for i, col := range s.working.Columns {
		if col.ID == id {
			s.working.Columns = append(s.working.Columns[:i], s.working.Columns[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no column with id %d in working set", id)
}

// AddIndex adds a user-created index. The selection is expanded into
// synthetic flat rows and re-grouped through the normalizer, so the new entry
// is structurally identical to an introspected one.
func (s *Session) AddIndex(name, indexType string, unique bool, columns []string) error {
	if name == "" {
		return fmt.Errorf("index name is required")
	}
	if len(columns) == 0 {
		return fmt.Errorf("index %q requires at least one column", name)
	}
	if _, exists := s.working.IndexByName(name); exists {
		return fmt.Errorf("index %q already exists", name)
	}
	grouped := schema.GroupIndexRows(schema.SyntheticIndexRows(name, indexType, unique, columns))
	s.working.Indexes = append(s.working.Indexes, grouped...)
	return nil
}

// RemoveIndex removes the named index from the working set.
func (s *Session) RemoveIndex(name string) error {
	for i, idx := range s.working.Indexes {
		if idx.Name == name {
			s.working.Indexes = append(s.working.Indexes[:i], s.working.Indexes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no index named %q in working set", name)
}

// AddForeignKey adds a foreign key constraint to the working set.
func (s *Session) AddForeignKey(fk schema.ForeignKey) error {
	if fk.ConstraintName == "" {
		return fmt.Errorf("foreign key constraint name is required")
	}
	for _, existing := range s.working.ForeignKeys {
		if existing.ConstraintName == fk.ConstraintName {
			return fmt.Errorf("foreign key %q already exists", fk.ConstraintName)
		}
	}
	s.working.ForeignKeys = append(s.working.ForeignKeys, fk)
	return nil
}

// RemoveForeignKey removes the named constraint from the working set.
func (s *Session) RemoveForeignKey(constraintName string) error {
	for i, fk := range s.working.ForeignKeys {
		if fk.ConstraintName == constraintName {
			s.working.ForeignKeys = append(s.working.ForeignKeys[:i], s.working.ForeignKeys[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no foreign key named %q in working set", constraintName)
}

// AddTrigger adds a trigger to the working set.
func (s *Session) AddTrigger(trg schema.Trigger) error {
	if trg.Name == "" {
		return fmt.Errorf("trigger name is required")
	}
	for _, existing := range s.working.Triggers {
		if existing.Name == trg.Name {
			return fmt.Errorf("trigger %q already exists", trg.Name)
		}
	}
	s.working.Triggers = append(s.working.Triggers, trg)
	return nil
}

// RemoveTrigger removes the named trigger from the working set.
func (s *Session) RemoveTrigger(name string) error {
	for i, trg := range s.working.Triggers {
		if trg.Name == name {
			s.working.Triggers = append(s.working.Triggers[:i], s.working.Triggers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no trigger named %q in working set", name)
}
