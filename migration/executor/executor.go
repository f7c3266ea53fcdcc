// Package executor applies a compiled change plan to a live server,
// statement by statement.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// Execer is the subset of *sql.DB the executor needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ApplyResult reports how far an apply got. On failure, Applied statements
// remain in place: there is no automatic rollback, and the caller is expected
// to re-introspect before compiling another plan.
type ApplyResult struct {
	Applied int `json:"applied"`
	Total   int `json:"total"`
}

// Executor runs plan statements sequentially against a database connection.
type Executor struct {
	db     Execer
	logger *slog.Logger
}

// New creates an executor for the given connection.
func New(db Execer) *Executor {
	return &Executor{
		db:     db,
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the executor.
func (e *Executor) WithLogger(l *slog.Logger) *Executor {
	tmp := *e
	tmp.logger = l
	return &tmp
}

// Apply executes the statements one at a time, awaiting each, and aborts on
// the first failure. The returned result is valid in both the success and the
// failure case.
func (e *Executor) Apply(ctx context.Context, statements []string) (*ApplyResult, error) {
	result := &ApplyResult{Total: len(statements)}

	e.logger.Info("Applying change plan", "statements", len(statements))

	for i, stmt := range statements {
		e.logger.Info("Executing statement", "index", i+1, "total", len(statements), "sql", stmt)

		if _, err := e.db.ExecContext(ctx, stmt); err != nil {
			return result, fmt.Errorf("failed to execute statement %d of %d (%s): %w", i+1, len(statements), stmt, err)
		}
		result.Applied++
	}

	e.logger.Info("Change plan applied", "statements", result.Applied)
	return result, nil
}

// ApplyScript splits a script into statements and applies them. See
// SplitScript for the splitting rules.
func (e *Executor) ApplyScript(ctx context.Context, script string) (*ApplyResult, error) {
	return e.Apply(ctx, SplitScript(script))
}

// SplitScript turns display-oriented script text back into executable
// fragments: comment lines are stripped, the remainder is split on ";" and
// empty fragments are discarded.
//
// Splitting is textual, so a ";" inside a trigger body splits the body. Plans
// carrying trigger bodies should be applied via Apply, which receives the
// statements pre-split.
func SplitScript(script string) []string {
	var kept []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	var statements []string
	for _, frag := range strings.Split(strings.Join(kept, "\n"), ";") {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		statements = append(statements, frag)
	}
	return statements
}
