// Package mysql turns a table diff into literal MySQL DDL statements.
package mysql

import (
	"fmt"

	"github.com/tableplan/tableplan/config"
	"github.com/tableplan/tableplan/core/schema"
	"github.com/tableplan/tableplan/core/sqlfmt"
	difftypes "github.com/tableplan/tableplan/migration/tablediff/types"
)

// DialectName is the MySQL dialect identifier.
const DialectName = "mysql"

// Planner renders diff partitions into MySQL statements.
//
// The planner is stateless apart from its options and is safe for concurrent
// use. Each call to GeneratePlan operates independently.
type Planner struct {
	opts *config.PlanOptions
}

// New creates a planner with default options.
func New() *Planner {
	return NewWithOptions(nil)
}

// NewWithOptions creates a planner with the given options. A nil opts uses
// defaults.
func NewWithOptions(opts *config.PlanOptions) *Planner {
	if opts == nil {
		opts = config.DefaultPlanOptions()
	}
	return &Planner{opts: opts}
}

// GeneratePlan emits statements for every diff partition in dependency order:
// column additions and modifications first, then column removals, then index
// additions and removals, foreign key additions and removals, and finally
// trigger additions and removals. Later statements may depend on structures
// created earlier, so the order is part of the contract, not cosmetics.
//
// Unique-flag toggles are emitted inside the column phase, after the CHANGE
// COLUMN pass, with creates before drops.
func (p *Planner) GeneratePlan(ref schema.TableRef, diff *difftypes.TableDiff) []string {
	var out []string

	for _, col := range diff.ColumnsAdded {
		out = append(out, p.addColumn(ref, col))
	}
	for _, cd := range diff.ColumnsModified {
		out = append(out, p.changeColumn(ref, cd))
	}
	for _, toggle := range diff.UniqueToggles {
		if toggle.Enabled {
			out = append(out, p.createUniqueIndex(ref, toggle.Column))
		}
	}
	for _, toggle := range diff.UniqueToggles {
		if !toggle.Enabled {
			out = append(out, p.dropUniqueIndex(toggle.Column))
		}
	}
	for _, col := range diff.ColumnsRemoved {
		out = append(out, p.dropColumn(ref, col))
	}

	for _, idx := range diff.IndexesAdded {
		if stmt, ok := p.createIndex(ref, idx); ok {
			out = append(out, stmt)
		}
	}
	for _, idx := range diff.IndexesRemoved {
		out = append(out, p.dropIndex(ref, idx))
	}

	for _, fk := range diff.ForeignKeysAdded {
		out = append(out, p.addForeignKey(ref, fk))
	}
	for _, fk := range diff.ForeignKeysRemoved {
		out = append(out, p.dropForeignKey(ref, fk))
	}

	for _, trg := range diff.TriggersAdded {
		out = append(out, p.createTrigger(ref, trg))
	}
	for _, trg := range diff.TriggersRemoved {
		out = append(out, p.dropTrigger(trg))
	}

	return out
}

func (p *Planner) addColumn(ref schema.TableRef, col schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s;",
		tableName(ref), sqlfmt.QuoteIdent(col.Name), columnDefinition(col))
}

func (p *Planner) changeColumn(ref schema.TableRef, cd difftypes.ColumnDiff) string {
	// The source identifier is the load-time name: after two renames only
	// the initial name is known to the server.
	return fmt.Sprintf("ALTER TABLE %s CHANGE COLUMN %s %s %s;",
		tableName(ref),
		sqlfmt.QuoteIdent(cd.New.OriginalName),
		sqlfmt.QuoteIdent(cd.New.Name),
		columnDefinition(cd.New))
}

func (p *Planner) dropColumn(ref schema.TableRef, col schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;",
		tableName(ref), sqlfmt.QuoteIdent(col.Name))
}

func (p *Planner) createUniqueIndex(ref schema.TableRef, col schema.Column) string {
	return fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s);",
		sqlfmt.QuoteIdent(p.opts.UniqueIndexName(col.Name)),
		tableName(ref),
		sqlfmt.QuoteIdent(col.Name))
}

// dropUniqueIndex is best-effort: the index name is reconstructed from the
// column's load-time name and may not match a server-assigned name if the
// index was created through another path.
func (p *Planner) dropUniqueIndex(col schema.Column) string {
	name := col.OriginalName
	if name == "" {
		name = col.Name
	}
	return fmt.Sprintf("DROP INDEX %s;",
		sqlfmt.QuoteIdent(p.opts.UniqueIndexName(name)))
}

// createIndex reports ok=false for an index with no columns, which is invalid
// and must not be emitted.
func (p *Planner) createIndex(ref schema.TableRef, idx schema.Index) (string, bool) {
	if len(idx.Columns) == 0 {
		return "", false
	}
	keyword := "INDEX"
	switch idx.Type {
	case schema.IndexTypeUnique:
		keyword = "UNIQUE INDEX"
	case schema.IndexTypeFulltext:
		keyword = "FULLTEXT INDEX"
	}
	if idx.Unique {
		keyword = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s %s ON %s (%s);",
		keyword,
		sqlfmt.QuoteIdent(idx.Name),
		tableName(ref),
		sqlfmt.QuoteIdentList(idx.Columns)), true
}

func (p *Planner) dropIndex(ref schema.TableRef, idx schema.Index) string {
	return fmt.Sprintf("DROP INDEX %s ON %s;",
		sqlfmt.QuoteIdent(idx.Name), tableName(ref))
}

func (p *Planner) addForeignKey(ref schema.TableRef, fk schema.ForeignKey) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);",
		tableName(ref),
		sqlfmt.QuoteIdent(fk.ConstraintName),
		sqlfmt.QuoteIdent(fk.ColumnName),
		sqlfmt.QuoteIdent(fk.ReferencedTable),
		sqlfmt.QuoteIdent(fk.ReferencedColumn))
}

func (p *Planner) dropForeignKey(ref schema.TableRef, fk schema.ForeignKey) string {
	return fmt.Sprintf("ALTER TABLE %s DROP FOREIGN KEY %s;",
		tableName(ref), sqlfmt.QuoteIdent(fk.ConstraintName))
}

func (p *Planner) createTrigger(ref schema.TableRef, trg schema.Trigger) string {
	return fmt.Sprintf("CREATE TRIGGER %s %s %s ON %s FOR EACH ROW BEGIN %s END;",
		sqlfmt.QuoteIdent(trg.Name),
		trg.Timing,
		trg.Event,
		tableName(ref),
		trg.Body)
}

func (p *Planner) dropTrigger(trg schema.Trigger) string {
	return fmt.Sprintf("DROP TRIGGER IF EXISTS %s;", sqlfmt.QuoteIdent(trg.Name))
}

func tableName(ref schema.TableRef) string {
	return sqlfmt.QualifiedName(ref.Database, ref.Table)
}

// columnDefinition renders the type, optional length and nullability suffix
// shared by ADD COLUMN and CHANGE COLUMN.
func columnDefinition(col schema.Column) string {
	def := col.DataType
	if col.Length != nil {
		def = fmt.Sprintf("%s(%d)", col.DataType, *col.Length)
	}
	if col.Nullable {
		return def + " NULL"
	}
	return def + " NOT NULL"
}
