package inspect

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/tableplan/tableplan/cmd/cmdutil"
	"github.com/tableplan/tableplan/core/schema"
	"github.com/tableplan/tableplan/dbschema"
	"github.com/tableplan/tableplan/dbschema/mysql"
	"github.com/tableplan/tableplan/editor"
)

const (
	dbURLFlag    = "db-url"
	databaseFlag = "database"
	tableFlag    = "table"
)

var inspectFlags = map[string]cobraflags.Flag{
	dbURLFlag: &cobraflags.StringFlag{
		Name:  dbURLFlag,
		Value: "",
		Usage: "MySQL DSN (falls back to TABLEPLAN_DB_URL)",
	},
	databaseFlag: &cobraflags.StringFlag{
		Name:  databaseFlag,
		Value: "",
		Usage: "Database (schema) the table lives in",
	},
	tableFlag: &cobraflags.StringFlag{
		Name:  tableFlag,
		Value: "",
		Usage: "Table to inspect",
	},
}

func NewInspectCommand() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Read a table's structure and print it as a YAML definition",
		Long: `Read a table's columns, indexes, foreign keys and triggers from the live
server and print them as a YAML table definition.

The output is a valid input for 'tableplan plan' and 'tableplan push', so the
usual workflow is: inspect, edit the file, plan, push.`,
		RunE: inspectCommand,
	}
	cobraflags.RegisterMap(inspectCmd, inspectFlags)
	return inspectCmd
}

func inspectCommand(cmd *cobra.Command, _ []string) error {
	database := inspectFlags[databaseFlag].GetString()
	table := inspectFlags[tableFlag].GetString()
	if database == "" || table == "" {
		return fmt.Errorf("both --database and --table are required")
	}

	dsn, err := cmdutil.ResolveDSN(inspectFlags[dbURLFlag].GetString())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := dbschema.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	ref := schema.TableRef{Database: database, Table: table}
	state, err := mysql.NewReader(db).ReadTable(ctx, ref)
	if err != nil {
		return err
	}

	data, err := editor.FromState(ref, state).Marshal()
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
