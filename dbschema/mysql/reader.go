// Package mysql reads table structure from MySQL's information_schema.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tableplan/tableplan/core/schema"
)

// Reader reads table structure from MySQL databases.
type Reader struct {
	db *sql.DB
}

// NewReader creates a new MySQL table reader.
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// ReadTable reads the complete structure of one table. The returned state
// seeds both the snapshot and, via a deep copy, the working set.
func (r *Reader) ReadTable(ctx context.Context, ref schema.TableRef) (*schema.TableState, error) {
	if ref.Database == "" || ref.Table == "" {
		return nil, fmt.Errorf("table reference requires both database and table name, got %q.%q", ref.Database, ref.Table)
	}

	state := &schema.TableState{}

	columns, err := r.readColumns(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	state.Columns = columns

	indexRows, err := r.readIndexRows(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read indexes: %w", err)
	}
	state.Indexes = schema.GroupIndexRows(indexRows)

	foreignKeys, err := r.readForeignKeys(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign keys: %w", err)
	}
	state.ForeignKeys = foreignKeys

	triggers, err := r.readTriggers(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read triggers: %w", err)
	}
	state.Triggers = triggers

	return state, nil
}

// readColumns reads the flat column list in ordinal position order. Surrogate
// ids are assigned by the editor session, not here.
func (r *Reader) readColumns(ctx context.Context, ref schema.TableRef) ([]schema.Column, error) {
	query := `
		SELECT column_name, data_type, character_maximum_length,
		       column_default, is_nullable, column_key, extra
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`

	rows, err := r.db.QueryContext(ctx, query, ref.Database, ref.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var (
			col        schema.Column
			length     sql.NullInt64
			defaultVal sql.NullString
			isNullable string
			columnKey  string
			extra      string
		)
		if err := rows.Scan(&col.Name, &col.DataType, &length, &defaultVal, &isNullable, &columnKey, &extra); err != nil {
			return nil, fmt.Errorf("failed to scan column row: %w", err)
		}
		if length.Valid {
			v := length.Int64
			col.Length = &v
		}
		// The driver reports a missing default as NULL and an explicit
		// NULL default as the literal string "NULL"; both mean no
		// server-side default text.
		if defaultVal.Valid && !strings.EqualFold(defaultVal.String, "NULL") {
			v := defaultVal.String
			col.DefaultValue = &v
		}
		col.DataType = strings.ToUpper(col.DataType)
		col.Nullable = strings.EqualFold(isNullable, "YES")
		col.PrimaryKey = columnKey == "PRI"
		col.Unique = columnKey == "UNI"
		col.AutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")
		col.OriginalName = col.Name
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column rows: %w", err)
	}
	return columns, nil
}

// readIndexRows reads the flat one-row-per-indexed-column representation that
// the normalizer groups. The PRIMARY index is managed through the column
// editor, not the index list, and is skipped here.
func (r *Reader) readIndexRows(ctx context.Context, ref schema.TableRef) ([]schema.IndexRow, error) {
	query := `
		SELECT index_name, column_name, non_unique, index_type
		FROM information_schema.statistics
		WHERE table_schema = ? AND table_name = ? AND index_name <> 'PRIMARY'
		ORDER BY index_name, seq_in_index`

	rows, err := r.db.QueryContext(ctx, query, ref.Database, ref.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to query index rows: %w", err)
	}
	defer rows.Close()

	var indexRows []schema.IndexRow
	for rows.Next() {
		var (
			row       schema.IndexRow
			nonUnique int
		)
		if err := rows.Scan(&row.Name, &row.ColumnName, &nonUnique, &row.IndexType); err != nil {
			return nil, fmt.Errorf("failed to scan index row: %w", err)
		}
		row.NonUnique = nonUnique != 0
		indexRows = append(indexRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating index rows: %w", err)
	}
	return indexRows, nil
}

func (r *Reader) readForeignKeys(ctx context.Context, ref schema.TableRef) ([]schema.ForeignKey, error) {
	query := `
		SELECT constraint_name, column_name, referenced_table_name, referenced_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ? AND table_name = ? AND referenced_table_name IS NOT NULL
		ORDER BY constraint_name, ordinal_position`

	rows, err := r.db.QueryContext(ctx, query, ref.Database, ref.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	var foreignKeys []schema.ForeignKey
	for rows.Next() {
		var fk schema.ForeignKey
		if err := rows.Scan(&fk.ConstraintName, &fk.ColumnName, &fk.ReferencedTable, &fk.ReferencedColumn); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key row: %w", err)
		}
		foreignKeys = append(foreignKeys, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foreign key rows: %w", err)
	}
	return foreignKeys, nil
}

func (r *Reader) readTriggers(ctx context.Context, ref schema.TableRef) ([]schema.Trigger, error) {
	query := `
		SELECT trigger_name, action_timing, event_manipulation, action_statement
		FROM information_schema.triggers
		WHERE trigger_schema = ? AND event_object_table = ?
		ORDER BY trigger_name`

	rows, err := r.db.QueryContext(ctx, query, ref.Database, ref.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to query triggers: %w", err)
	}
	defer rows.Close()

	var triggers []schema.Trigger
	for rows.Next() {
		var trg schema.Trigger
		if err := rows.Scan(&trg.Name, &trg.Timing, &trg.Event, &trg.Body); err != nil {
			return nil, fmt.Errorf("failed to scan trigger row: %w", err)
		}
		triggers = append(triggers, trg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trigger rows: %w", err)
	}
	return triggers, nil
}
