// Package changeplan compiles a snapshot/working-set pair into an ordered
// sequence of MySQL DDL statements.
//
// Compile is stateless and re-entrant: it is safe to invoke synchronously
// after every edit, with no debouncing, memoization or cancellation concerns.
package changeplan

import (
	"strings"

	"github.com/tableplan/tableplan/config"
	"github.com/tableplan/tableplan/core/schema"
	"github.com/tableplan/tableplan/migration/planner/mysql"
	"github.com/tableplan/tableplan/migration/tablediff"
	difftypes "github.com/tableplan/tableplan/migration/tablediff/types"
)

// Plan is the compiled change plan for one table.
//
// Statements is an ordered transaction plan: the consumer must execute the
// statements one at a time, in order, stopping at the first failure. The
// order is the only one in which a partial application remains internally
// consistent. There is no automatic rollback; after success or a partial
// failure the caller is expected to re-introspect and build a fresh
// snapshot/working-set pair.
type Plan struct {
	Ref        schema.TableRef      `json:"ref"`
	Statements []string             `json:"statements"`
	Diff       *difftypes.TableDiff `json:"diff"`
	HasChanges bool                 `json:"has_changes"`
}

// Script joins the statements into one displayable script, one statement per
// line.
func (p *Plan) Script() string {
	return strings.Join(p.Statements, "\n")
}

// Compile diffs the working set against the snapshot and emits the DDL that
// transforms the former table structure into the latter. A nil opts uses
// defaults.
//
// HasChanges is true exactly when at least one statement was emitted, so a
// consumer can distinguish "nothing changed" from an empty list produced in
// error.
func Compile(ref schema.TableRef, snapshot, working *schema.TableState, opts *config.PlanOptions) *Plan {
	diff := tablediff.Compute(snapshot, working)
	statements := mysql.NewWithOptions(opts).GeneratePlan(ref, diff)

	return &Plan{
		Ref:        ref,
		Statements: statements,
		Diff:       diff,
		HasChanges: len(statements) > 0,
	}
}
