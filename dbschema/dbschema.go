// Package dbschema connects to a live server and reads table structure for
// seeding the editor's snapshot and working set.
package dbschema

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/tableplan/tableplan/core/schema"
)

// TableReader reads the full structure of one table.
type TableReader interface {
	ReadTable(ctx context.Context, ref schema.TableRef) (*schema.TableState, error)
}

// Open opens and verifies a MySQL connection for the given DSN.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
