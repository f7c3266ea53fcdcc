package push

import (
	"fmt"
	"log/slog"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/tableplan/tableplan/cmd/cmdutil"
	"github.com/tableplan/tableplan/cmd/plan"
	"github.com/tableplan/tableplan/dbschema"
	"github.com/tableplan/tableplan/migration/executor"
)

const (
	dbURLFlag    = "db-url"
	fileFlag     = "file"
	databaseFlag = "database"
	dryRunFlag   = "dry-run"
)

var pushFlags = map[string]cobraflags.Flag{
	dbURLFlag: &cobraflags.StringFlag{
		Name:  dbURLFlag,
		Value: "",
		Usage: "MySQL DSN (falls back to TABLEPLAN_DB_URL)",
	},
	fileFlag: &cobraflags.StringFlag{
		Name:  fileFlag,
		Value: "table.yaml",
		Usage: "YAML table definition describing the desired structure",
	},
	databaseFlag: &cobraflags.StringFlag{
		Name:  databaseFlag,
		Value: "",
		Usage: "Override the database named in the definition file",
	},
	dryRunFlag: &cobraflags.BoolFlag{
		Name:  dryRunFlag,
		Value: false,
		Usage: "Print the plan without executing it",
	},
}

func NewPushCommand() *cobra.Command {
	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Compile and apply the change plan, statement by statement",
		Long: `Compile the change plan for the definition file and execute it against the
live server, one statement at a time, stopping at the first failure.

Statements applied before a failure stay applied; there is no rollback.
Re-run 'tableplan plan' after a partial failure to see what remains.`,
		RunE: pushCommand,
	}
	cobraflags.RegisterMap(pushCmd, pushFlags)
	return pushCmd
}

func pushCommand(cmd *cobra.Command, _ []string) error {
	dsn, err := cmdutil.ResolveDSN(pushFlags[dbURLFlag].GetString())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := dbschema.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := cmdutil.LoadPlan(ctx, db, pushFlags[fileFlag].GetString(), pushFlags[databaseFlag].GetString())
	if err != nil {
		return err
	}

	if !p.HasChanges {
		fmt.Println("No changes detected.")
		return nil
	}

	if pushFlags[dryRunFlag].GetBool() {
		fmt.Println(p.Script())
		fmt.Println()
		plan.PrintSummary(p.Diff)
		return nil
	}

	result, err := executor.New(db).WithLogger(slog.Default()).Apply(ctx, p.Statements)
	if err != nil {
		return fmt.Errorf("push aborted after %d of %d statements: %w", result.Applied, result.Total, err)
	}

	fmt.Printf("Applied %d statements.\n", result.Applied)
	return nil
}
