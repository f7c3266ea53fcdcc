// Package cmdutil holds the small pieces shared by the CLI subcommands:
// DSN resolution and the definition-file planning flow.
package cmdutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/tableplan/tableplan/dbschema/mysql"
	"github.com/tableplan/tableplan/editor"
	"github.com/tableplan/tableplan/migration/changeplan"
)

// ResolveDSN returns the flag value if set, falling back to the
// TABLEPLAN_DB_URL environment variable.
func ResolveDSN(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := viper.GetString("db_url"); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no database DSN given: pass --db-url or set TABLEPLAN_DB_URL")
}

// LoadPlan reads a YAML table definition, introspects the live table it names,
// applies the definition to a fresh editing session and compiles the change
// plan. An empty databaseOverride uses the database named in the definition.
func LoadPlan(ctx context.Context, db *sql.DB, defPath, databaseOverride string) (*changeplan.Plan, error) {
	data, err := os.ReadFile(defPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}
	def, err := editor.ParseTableDef(data)
	if err != nil {
		return nil, err
	}

	ref := def.Ref()
	if databaseOverride != "" {
		ref.Database = databaseOverride
	}

	state, err := mysql.NewReader(db).ReadTable(ctx, ref)
	if err != nil {
		return nil, err
	}

	session := editor.NewSession(ref, state, nil)
	if err := session.ApplyDef(def); err != nil {
		return nil, fmt.Errorf("failed to apply definition %s: %w", defPath, err)
	}
	return session.Plan(), nil
}
