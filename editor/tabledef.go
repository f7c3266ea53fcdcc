package editor

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tableplan/tableplan/core/schema"
)

// TableDef is the YAML form of a desired table structure, as written by hand
// or produced by `tableplan inspect`.
type TableDef struct {
	Database    string          `yaml:"database,omitempty"`
	Table       string          `yaml:"table"`
	Columns     []ColumnDef     `yaml:"columns"`
	Indexes     []IndexDef      `yaml:"indexes,omitempty"`
	ForeignKeys []ForeignKeyDef `yaml:"foreign_keys,omitempty"`
	Triggers    []TriggerDef    `yaml:"triggers,omitempty"`
}

// ColumnDef describes one column. RenamedFrom names the live column this
// definition renames; without it, columns are matched to the session by name.
type ColumnDef struct {
	Name          string   `yaml:"name"`
	RenamedFrom   string   `yaml:"renamed_from,omitempty"`
	Type          string   `yaml:"type"`
	Length        *FlexInt `yaml:"length,omitempty"`
	Default       *string  `yaml:"default,omitempty"`
	Nullable      bool     `yaml:"nullable"`
	PrimaryKey    bool     `yaml:"primary_key,omitempty"`
	AutoIncrement bool     `yaml:"auto_increment,omitempty"`
	Unique        bool     `yaml:"unique,omitempty"`
}

// IndexDef describes one index. Column order is preserved in emitted DDL.
type IndexDef struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type,omitempty"`
	Unique  bool     `yaml:"unique,omitempty"`
	Columns []string `yaml:"columns"`
}

// ForeignKeyDef describes one single-column foreign key constraint.
type ForeignKeyDef struct {
	Name             string `yaml:"name"`
	Column           string `yaml:"column"`
	ReferencedTable  string `yaml:"referenced_table"`
	ReferencedColumn string `yaml:"referenced_column"`
}

// TriggerDef describes one row trigger.
type TriggerDef struct {
	Name   string `yaml:"name"`
	Timing string `yaml:"timing"`
	Event  string `yaml:"event"`
	Body   string `yaml:"body"`
}

// FlexInt decodes from either a YAML integer or a numeric string, so a quoted
// length like "255" compares equal to an introspected numeric length.
type FlexInt int64

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FlexInt) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*f = FlexInt(n)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("length must be a number or numeric string: %w", err)
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid length %q: %w", s, err)
	}
	*f = FlexInt(parsed)
	return nil
}

// ParseTableDef parses a YAML table definition.
func ParseTableDef(data []byte) (*TableDef, error) {
	var def TableDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse table definition: %w", err)
	}
	if def.Table == "" {
		return nil, fmt.Errorf("table definition is missing the table name")
	}
	return &def, nil
}

// Ref returns the table identifier named by the definition.
func (d *TableDef) Ref() schema.TableRef {
	return schema.TableRef{Database: d.Database, Table: d.Table}
}

// FromState converts a table state back into a definition, the form printed
// by `tableplan inspect`.
func FromState(ref schema.TableRef, state *schema.TableState) *TableDef {
	def := &TableDef{
		Database: ref.Database,
		Table:    ref.Table,
	}
	for _, col := range state.Columns {
		cd := ColumnDef{
			Name:          col.Name,
			Type:          col.DataType,
			Default:       col.DefaultValue,
			Nullable:      col.Nullable,
			PrimaryKey:    col.PrimaryKey,
			AutoIncrement: col.AutoIncrement,
			Unique:        col.Unique,
		}
		if col.Length != nil {
			v := FlexInt(*col.Length)
			cd.Length = &v
		}
		def.Columns = append(def.Columns, cd)
	}
	for _, idx := range state.Indexes {
		def.Indexes = append(def.Indexes, IndexDef{
			Name:    idx.Name,
			Type:    idx.Type,
			Unique:  idx.Unique,
			Columns: append([]string(nil), idx.Columns...),
		})
	}
	for _, fk := range state.ForeignKeys {
		def.ForeignKeys = append(def.ForeignKeys, ForeignKeyDef{
			Name:             fk.ConstraintName,
			Column:           fk.ColumnName,
			ReferencedTable:  fk.ReferencedTable,
			ReferencedColumn: fk.ReferencedColumn,
		})
	}
	for _, trg := range state.Triggers {
		def.Triggers = append(def.Triggers, TriggerDef{
			Name:   trg.Name,
			Timing: trg.Timing,
			Event:  trg.Event,
			Body:   trg.Body,
		})
	}
	return def
}

// Marshal renders the definition as YAML.
func (d *TableDef) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal table definition: %w", err)
	}
	return data, nil
}

func (cd ColumnDef) column() schema.Column {
	col := schema.Column{
		Name:          cd.Name,
		DataType:      cd.Type,
		DefaultValue:  cd.Default,
		Nullable:      cd.Nullable,
		PrimaryKey:    cd.PrimaryKey,
		AutoIncrement: cd.AutoIncrement,
		Unique:        cd.Unique,
	}
	if cd.Length != nil {
		v := int64(*cd.Length)
		col.Length = &v
	}
	return col
}

// ApplyDef edits the session's working set until it matches the definition:
// definition columns are matched to working columns by renamed_from or name
// and updated in place (keeping their surrogate id), unmatched definition
// entries become additions, and working entries the definition no longer
// mentions become removals. Indexes, foreign keys and triggers are matched by
// name only; a changed definition under the same name is left untouched,
// matching the drop+create editing model.
func (s *Session) ApplyDef(def *TableDef) error {
	kept := make(map[int64]struct{})
	for _, cd := range def.Columns {
		matchName := cd.RenamedFrom
		if matchName == "" {
			matchName = cd.Name
		}
		matched := false
		for _, existing := range s.working.Columns {
			if existing.Name == matchName {
				col := cd.column()
				col.ID = existing.ID
				if err := s.UpdateColumn(col); err != nil {
					return err
				}
				kept[existing.ID] = struct{}{}
				matched = true
				break
			}
		}
		if !matched {
			if cd.RenamedFrom != "" {
				return fmt.Errorf("column %q renames %q, which does not exist", cd.Name, cd.RenamedFrom)
			}
			kept[s.AddColumn(cd.column())] = struct{}{}
		}
	}
	for _, col := range s.Working().Columns {
		if _, ok := kept[col.ID]; !ok {
			if err := s.RemoveColumn(col.ID); err != nil {
				return err
			}
		}
	}

	wantIndexes := make(map[string]struct{}, len(def.Indexes))
	for _, idx := range def.Indexes {
		wantIndexes[idx.Name] = struct{}{}
		if _, exists := s.working.IndexByName(idx.Name); !exists {
			if err := s.AddIndex(idx.Name, idx.Type, idx.Unique, idx.Columns); err != nil {
				return err
			}
		}
	}
	for _, idx := range s.Working().Indexes {
		if _, ok := wantIndexes[idx.Name]; !ok {
			if err := s.RemoveIndex(idx.Name); err != nil {
				return err
			}
		}
	}

	wantFKs := make(map[string]struct{}, len(def.ForeignKeys))
	for _, fk := range def.ForeignKeys {
		wantFKs[fk.Name] = struct{}{}
		if !s.hasForeignKey(fk.Name) {
			err := s.AddForeignKey(schema.ForeignKey{
				ConstraintName:   fk.Name,
				ColumnName:       fk.Column,
				ReferencedTable:  fk.ReferencedTable,
				ReferencedColumn: fk.ReferencedColumn,
			})
			if err != nil {
				return err
			}
		}
	}
	for _, fk := range s.Working().ForeignKeys {
		if _, ok := wantFKs[fk.ConstraintName]; !ok {
			if err := s.RemoveForeignKey(fk.ConstraintName); err != nil {
				return err
			}
		}
	}

	wantTriggers := make(map[string]struct{}, len(def.Triggers))
	for _, trg := range def.Triggers {
		wantTriggers[trg.Name] = struct{}{}
		if !s.hasTrigger(trg.Name) {
			err := s.AddTrigger(schema.Trigger{
				Name:   trg.Name,
				Timing: trg.Timing,
				Event:  trg.Event,
				Body:   trg.Body,
			})
			if err != nil {
				return err
			}
		}
	}
	for _, trg := range s.Working().Triggers {
		if _, ok := wantTriggers[trg.Name]; !ok {
			if err := s.RemoveTrigger(trg.Name); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Session) hasForeignKey(name string) bool {
	for _, fk := range s.working.ForeignKeys {
		if fk.ConstraintName == name {
			return true
		}
	}
	return false
}

func (s *Session) hasTrigger(name string) bool {
	for _, trg := range s.working.Triggers {
		if trg.Name == name {
			return true
		}
	}
	return false
}
