package schema_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/tableplan/tableplan/core/schema"
)

func TestTableStateClone_IsDeep(t *testing.T) {
	c := qt.New(t)

	length := int64(255)
	def := "guest"
	original := &schema.TableState{
		Columns: []schema.Column{
			{ID: 1, Name: "name", OriginalName: "name", DataType: "VARCHAR", Length: &length, DefaultValue: &def},
		},
		Indexes: []schema.Index{
			{Name: "idx_name", Type: "BTREE", Columns: []string{"name"}},
		},
		ForeignKeys: []schema.ForeignKey{
			{ConstraintName: "fk_org", ColumnName: "org_id", ReferencedTable: "orgs", ReferencedColumn: "id"},
		},
		Triggers: []schema.Trigger{
			{Name: "trg_audit", Timing: schema.TimingAfter, Event: schema.EventUpdate, Body: "INSERT INTO audit VALUES (NEW.id)"},
		},
	}

	clone := original.Clone()

	// Mutating the clone must not reach back into the original.
	clone.Columns[0].Name = "renamed"
	*clone.Columns[0].Length = 100
	*clone.Columns[0].DefaultValue = "admin"
	clone.Indexes[0].Columns[0] = "other"
	clone.ForeignKeys[0].ReferencedTable = "users"
	clone.Triggers[0].Body = "changed"

	c.Assert(original.Columns[0].Name, qt.Equals, "name")
	c.Assert(*original.Columns[0].Length, qt.Equals, int64(255))
	c.Assert(*original.Columns[0].DefaultValue, qt.Equals, "guest")
	c.Assert(original.Indexes[0].Columns[0], qt.Equals, "name")
	c.Assert(original.ForeignKeys[0].ReferencedTable, qt.Equals, "orgs")
	c.Assert(original.Triggers[0].Body, qt.Equals, "INSERT INTO audit VALUES (NEW.id)")
}

func TestTableStateClone_Nil(t *testing.T) {
	c := qt.New(t)

	var state *schema.TableState
	c.Assert(state.Clone(), qt.IsNil)
}

func TestColumnByID(t *testing.T) {
	c := qt.New(t)

	state := &schema.TableState{
		Columns: []schema.Column{
			{ID: 1, Name: "id"},
			{ID: 2, Name: "email"},
		},
	}

	col, ok := state.ColumnByID(2)
	c.Assert(ok, qt.IsTrue)
	c.Assert(col.Name, qt.Equals, "email")

	_, ok = state.ColumnByID(99)
	c.Assert(ok, qt.IsFalse)
}

func TestIndexByName(t *testing.T) {
	c := qt.New(t)

	state := &schema.TableState{
		Indexes: []schema.Index{{Name: "idx_a", Columns: []string{"x"}}},
	}

	idx, ok := state.IndexByName("idx_a")
	c.Assert(ok, qt.IsTrue)
	c.Assert(idx.Columns, qt.DeepEquals, []string{"x"})

	_, ok = state.IndexByName("idx_b")
	c.Assert(ok, qt.IsFalse)
}
