package compare

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/tableplan/tableplan/core/schema"
)

func ptr(v int64) *int64 { return &v }

func TestLengthEqual(t *testing.T) {
	c := qt.New(t)

	c.Assert(lengthEqual(nil, nil), qt.IsTrue)
	c.Assert(lengthEqual(ptr(10), ptr(10)), qt.IsTrue)
	c.Assert(lengthEqual(ptr(10), ptr(11)), qt.IsFalse)
	c.Assert(lengthEqual(nil, ptr(10)), qt.IsFalse)
	c.Assert(lengthEqual(ptr(10), nil), qt.IsFalse)
}

func TestColumnChanges_NoDifference(t *testing.T) {
	c := qt.New(t)

	col := schema.Column{ID: 1, Name: "email", DataType: "VARCHAR", Length: ptr(255)}
	c.Assert(columnChanges(col, col), qt.IsNil)
}

func TestColumnChanges_IgnoresDefaultAndPrimaryKey(t *testing.T) {
	c := qt.New(t)

	def := "x"
	old := schema.Column{ID: 1, Name: "email", DataType: "VARCHAR"}
	updated := old
	updated.DefaultValue = &def
	updated.PrimaryKey = true

	// Default values and primary-key membership are outside the modified
	// check; only name, type, length, nullable and auto_increment count.
	c.Assert(columnChanges(old, updated), qt.IsNil)
}

func TestColumnChanges_TransitionFormat(t *testing.T) {
	c := qt.New(t)

	old := schema.Column{ID: 1, Name: "n", DataType: "INT", AutoIncrement: true}
	updated := schema.Column{ID: 1, Name: "n", DataType: "BIGINT", AutoIncrement: false}

	c.Assert(columnChanges(old, updated), qt.DeepEquals, map[string]string{
		"type":           "INT -> BIGINT",
		"auto_increment": "true -> false",
	})
}
