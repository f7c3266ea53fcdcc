// Package compare implements the per-kind diff passes between a table
// snapshot and its working set.
package compare

import (
	"fmt"

	"github.com/tableplan/tableplan/core/schema"
	difftypes "github.com/tableplan/tableplan/migration/tablediff/types"
)

// Columns partitions working-set vs snapshot columns into added, removed and
// modified, and records independent unique-flag toggles.
//
// Identity is the surrogate id: an id present only in the working set is an
// addition, present only in the snapshot a removal, present in both a
// candidate for the modified check. Matching by id is what makes a rename a
// CHANGE COLUMN rather than a drop+add pair.
//
// The modified check compares name, data type, length, nullability and
// auto-increment; any difference folds into a single ColumnDiff. The unique
// flag is compared separately so a uniqueness flip never forces (or depends
// on) a CHANGE COLUMN emission.
//
// Both input slices are iterated in order, so permuting a collection permutes
// entries within a partition but never changes the partition sets.
func Columns(snapshot, working []schema.Column, diff *difftypes.TableDiff) {
	snapByID := make(map[int64]schema.Column, len(snapshot))
	for _, col := range snapshot {
		snapByID[col.ID] = col
	}
	workingIDs := make(map[int64]struct{}, len(working))

	for _, col := range working {
		workingIDs[col.ID] = struct{}{}

		old, exists := snapByID[col.ID]
		if !exists {
			diff.ColumnsAdded = append(diff.ColumnsAdded, col)
			continue
		}
		if changes := columnChanges(old, col); len(changes) > 0 {
			diff.ColumnsModified = append(diff.ColumnsModified, difftypes.ColumnDiff{
				Old:     old,
				New:     col,
				Changes: changes,
			})
		}
		if old.Unique != col.Unique {
			diff.UniqueToggles = append(diff.UniqueToggles, difftypes.UniqueToggle{
				Column:  col,
				Enabled: col.Unique,
			})
		}
	}

	for _, col := range snapshot {
		if _, exists := workingIDs[col.ID]; !exists {
			diff.ColumnsRemoved = append(diff.ColumnsRemoved, col)
		}
	}
}

func columnChanges(old, updated schema.Column) map[string]string {
	changes := make(map[string]string)
	if old.Name != updated.Name {
		changes["name"] = transition(old.Name, updated.Name)
	}
	if old.DataType != updated.DataType {
		changes["type"] = transition(old.DataType, updated.DataType)
	}
	if !lengthEqual(old.Length, updated.Length) {
		changes["length"] = transition(lengthString(old.Length), lengthString(updated.Length))
	}
	if old.Nullable != updated.Nullable {
		changes["nullable"] = transition(old.Nullable, updated.Nullable)
	}
	if old.AutoIncrement != updated.AutoIncrement {
		changes["auto_increment"] = transition(old.AutoIncrement, updated.AutoIncrement)
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}

func transition(from, to any) string {
	return fmt.Sprintf("%v -> %v", from, to)
}

// lengthEqual compares lengths by value. Sources that report lengths as
// numeric strings are coerced at the edges (introspection reader, table
// definition loader), so "10" and 10 have already converged here.
func lengthEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func lengthString(l *int64) string {
	if l == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *l)
}

// Indexes computes a pure set difference by index name. No modified state
// exists for indexes: redefining one is a removal plus an addition.
func Indexes(snapshot, working []schema.Index, diff *difftypes.TableDiff) {
	snapByName := make(map[string]schema.Index, len(snapshot))
	for _, idx := range snapshot {
		snapByName[idx.Name] = idx
	}
	workingNames := make(map[string]struct{}, len(working))

	for _, idx := range working {
		workingNames[idx.Name] = struct{}{}
		if _, exists := snapByName[idx.Name]; !exists {
			diff.IndexesAdded = append(diff.IndexesAdded, idx)
		}
	}
	for _, idx := range snapshot {
		if _, exists := workingNames[idx.Name]; !exists {
			diff.IndexesRemoved = append(diff.IndexesRemoved, idx)
		}
	}
}

// ForeignKeys computes a pure set difference by constraint name.
func ForeignKeys(snapshot, working []schema.ForeignKey, diff *difftypes.TableDiff) {
	snapByName := make(map[string]schema.ForeignKey, len(snapshot))
	for _, fk := range snapshot {
		snapByName[fk.ConstraintName] = fk
	}
	workingNames := make(map[string]struct{}, len(working))

	for _, fk := range working {
		workingNames[fk.ConstraintName] = struct{}{}
		if _, exists := snapByName[fk.ConstraintName]; !exists {
			diff.ForeignKeysAdded = append(diff.ForeignKeysAdded, fk)
		}
	}
	for _, fk := range snapshot {
		if _, exists := workingNames[fk.ConstraintName]; !exists {
			diff.ForeignKeysRemoved = append(diff.ForeignKeysRemoved, fk)
		}
	}
}

// Triggers computes a pure set difference by trigger name. Body changes do
// not count as modifications; redefining a trigger is drop+create.
func Triggers(snapshot, working []schema.Trigger, diff *difftypes.TableDiff) {
	snapByName := make(map[string]schema.Trigger, len(snapshot))
	for _, trg := range snapshot {
		snapByName[trg.Name] = trg
	}
	workingNames := make(map[string]struct{}, len(working))

	for _, trg := range working {
		workingNames[trg.Name] = struct{}{}
		if _, exists := snapByName[trg.Name]; !exists {
			diff.TriggersAdded = append(diff.TriggersAdded, trg)
		}
	}
	for _, trg := range snapshot {
		if _, exists := workingNames[trg.Name]; !exists {
			diff.TriggersRemoved = append(diff.TriggersRemoved, trg)
		}
	}
}
