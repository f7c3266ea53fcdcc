package plan

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tableplan/tableplan/cmd/cmdutil"
	"github.com/tableplan/tableplan/dbschema"
	difftypes "github.com/tableplan/tableplan/migration/tablediff/types"
)

const (
	dbURLFlag    = "db-url"
	fileFlag     = "file"
	databaseFlag = "database"
)

var planFlags = map[string]cobraflags.Flag{
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
}

func NewPlanCommand() *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Compile the change plan for an edited definition file",
		Long: `Introspect the live table, diff it against the YAML definition and print
the DDL statements that would bring the table in line with the definition.

Nothing is executed; use 'tableplan push' to apply the plan.`,
		RunE: planCommand,
	}
	cobraflags.RegisterMap(planCmd, planFlags)
	return planCmd
}

func planCommand(cmd *cobra.Command, _ []string) error {
	dsn, err := cmdutil.ResolveDSN(planFlags[dbURLFlag].GetString())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := dbschema.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := cmdutil.LoadPlan(ctx, db, planFlags[fileFlag].GetString(), planFlags[databaseFlag].GetString())
	if err != nil {
		return err
	}

	if !p.HasChanges {
		fmt.Println("No changes detected.")
		return nil
	}

	fmt.Println(p.Script())
	fmt.Println()
	PrintSummary(p.Diff)
	return nil
}

// PrintSummary prints a per-kind count of the diff, skipping empty kinds.
func PrintSummary(diff *difftypes.TableDiff) {
	titler := cases.Title(language.English)
	sections := []struct {
		label string
		count int
	}{
		{"columns added", len(diff.ColumnsAdded)},
		{"columns modified", len(diff.ColumnsModified)},
		{"columns removed", len(diff.ColumnsRemoved)},
		{"unique flags toggled", len(diff.UniqueToggles)},
		{"indexes added", len(diff.IndexesAdded)},
		{"indexes removed", len(diff.IndexesRemoved)},
		{"foreign keys added", len(diff.ForeignKeysAdded)},
		{"foreign keys removed", len(diff.ForeignKeysRemoved)},
		{"triggers added", len(diff.TriggersAdded)},
		{"triggers removed", len(diff.TriggersRemoved)},
	}
	for _, s := range sections {
		if s.count > 0 {
			fmt.Printf("%s: %d\n", titler.String(s.label), s.count)
		}
	}
}
