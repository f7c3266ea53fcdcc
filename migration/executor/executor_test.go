package executor_test

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/tableplan/tableplan/migration/executor"
)

// fakeConn records executed statements and fails on a designated one.
type fakeConn struct {
	executed []string
	failOn   string
}

func (f *fakeConn) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	if query == f.failOn {
		return nil, fmt.Errorf("syntax error near %q", query)
	}
	f.executed = append(f.executed, query)
	return nil, nil
}

func quietExecutor(conn *fakeConn) *executor.Executor {
	return executor.New(conn).WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestApply_SequentialSuccess(t *testing.T) {
	c := qt.New(t)

	conn := &fakeConn{}
	statements := []string{
		"ALTER TABLE `t` ADD COLUMN `a` INT NULL",
		"CREATE INDEX `idx_a` ON `t` (`a`)",
	}

	result, err := quietExecutor(conn).Apply(context.Background(), statements)

	c.Assert(err, qt.IsNil)
	c.Assert(result.Applied, qt.Equals, 2)
	c.Assert(result.Total, qt.Equals, 2)
	c.Assert(conn.executed, qt.DeepEquals, statements)
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	c := qt.New(t)

	conn := &fakeConn{failOn: "BAD STATEMENT"}
	statements := []string{
		"ALTER TABLE `t` ADD COLUMN `a` INT NULL",
		"BAD STATEMENT",
		"ALTER TABLE `t` DROP COLUMN `b`",
	}

	result, err := quietExecutor(conn).Apply(context.Background(), statements)

	c.Assert(err, qt.IsNotNil)
	c.Assert(err.Error(), qt.Contains, "statement 2 of 3")
	// The statement before the failure stays applied; the one after is
	// never attempted.
	c.Assert(result.Applied, qt.Equals, 1)
	c.Assert(result.Total, qt.Equals, 3)
	c.Assert(conn.executed, qt.DeepEquals, statements[:1])
}

func TestApply_EmptyPlan(t *testing.T) {
	c := qt.New(t)

	conn := &fakeConn{}
	result, err := quietExecutor(conn).Apply(context.Background(), nil)

	c.Assert(err, qt.IsNil)
	c.Assert(result.Applied, qt.Equals, 0)
	c.Assert(conn.executed, qt.HasLen, 0)
}

func TestSplitScript(t *testing.T) {
	c := qt.New(t)

	script := "-- change plan for t\n" +
		"ALTER TABLE `t` ADD COLUMN `a` INT NULL;\n" +
		"\n" +
		"  -- drop the legacy column\n" +
		"ALTER TABLE `t` DROP COLUMN `b`;\n" +
		";\n"

	c.Assert(executor.SplitScript(script), qt.DeepEquals, []string{
		"ALTER TABLE `t` ADD COLUMN `a` INT NULL",
		"ALTER TABLE `t` DROP COLUMN `b`",
	})
}

func TestSplitScript_Empty(t *testing.T) {
	c := qt.New(t)

	c.Assert(executor.SplitScript(""), qt.HasLen, 0)
	c.Assert(executor.SplitScript("-- nothing to do\n"), qt.HasLen, 0)
}

func TestApplyScript(t *testing.T) {
	c := qt.New(t)

	conn := &fakeConn{}
	result, err := quietExecutor(conn).ApplyScript(context.Background(),
		"ALTER TABLE `t` ADD COLUMN `a` INT NULL;\nALTER TABLE `t` DROP COLUMN `b`;")

	c.Assert(err, qt.IsNil)
	c.Assert(result.Applied, qt.Equals, 2)
	c.Assert(conn.executed, qt.DeepEquals, []string{
		"ALTER TABLE `t` ADD COLUMN `a` INT NULL",
		"ALTER TABLE `t` DROP COLUMN `b`",
	})
}
