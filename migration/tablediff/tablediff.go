// Package tablediff computes the difference between an immutable table
// snapshot and its edited working set.
//
// The computation is a pure function of its two inputs: it holds no state,
// produces no side effects, and may be invoked arbitrarily often (after every
// edit) without duplicate results.
package tablediff

import (
	"github.com/tableplan/tableplan/core/schema"
	"github.com/tableplan/tableplan/migration/tablediff/internal/compare"
	difftypes "github.com/tableplan/tableplan/migration/tablediff/types"
)

// Compute compares a snapshot against a working set and returns the combined
// per-kind diff.
//
// Columns are matched by surrogate id; indexes, foreign keys and triggers by
// name. The name-based kinds support no modified state: renaming or
// redefining one is represented as one removal plus one addition.
func Compute(snapshot, working *schema.TableState) *difftypes.TableDiff {
	diff := &difftypes.TableDiff{}

	compare.Columns(snapshot.Columns, working.Columns, diff)
	compare.Indexes(snapshot.Indexes, working.Indexes, diff)
	compare.ForeignKeys(snapshot.ForeignKeys, working.ForeignKeys, diff)
	compare.Triggers(snapshot.Triggers, working.Triggers, diff)

	return diff
}
