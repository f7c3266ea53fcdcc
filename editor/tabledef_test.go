package editor_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-extras/go-kit/must"

	"github.com/tableplan/tableplan/core/schema"
	"github.com/tableplan/tableplan/editor"
)

func TestParseTableDef(t *testing.T) {
	c := qt.New(t)

	def := must.Must(editor.ParseTableDef([]byte(`
database: app
table: users
columns:
  - name: id
    type: INT
    primary_key: true
    auto_increment: true
  - name: email
    type: VARCHAR
    length: "255"
    nullable: false
indexes:
  - name: idx_email
    columns: [email]
`)))

	c.Assert(def.Ref(), qt.Equals, schema.TableRef{Database: "app", Table: "users"})
	c.Assert(def.Columns, qt.HasLen, 2)
	// Quoted numeric lengths coerce to numbers at the edge.
	c.Assert(int64(*def.Columns[1].Length), qt.Equals, int64(255))
	c.Assert(def.Indexes[0].Columns, qt.DeepEquals, []string{"email"})
}

func TestParseTableDef_MissingTable(t *testing.T) {
	c := qt.New(t)

	_, err := editor.ParseTableDef([]byte("columns: []\n"))
	c.Assert(err, qt.ErrorMatches, "table definition is missing the table name")
}

func TestParseTableDef_BadLength(t *testing.T) {
	c := qt.New(t)

	_, err := editor.ParseTableDef([]byte("table: t\ncolumns:\n  - name: a\n    type: VARCHAR\n    length: big\n"))
	c.Assert(err, qt.IsNotNil)
}

func TestFromState_RoundTripsThroughParse(t *testing.T) {
	c := qt.New(t)

	length := int64(255)
	state := &schema.TableState{
		Columns: []schema.Column{
			{ID: 1, Name: "id", OriginalName: "id", DataType: "INT", PrimaryKey: true, AutoIncrement: true},
			{ID: 2, Name: "email", OriginalName: "email", DataType: "VARCHAR", Length: &length},
		},
		Indexes: []schema.Index{
			{Name: "idx_email", Type: "BTREE", Columns: []string{"email"}},
		},
		ForeignKeys: []schema.ForeignKey{
			{ConstraintName: "fk_org", ColumnName: "org_id", ReferencedTable: "orgs", ReferencedColumn: "id"},
		},
	}
	ref := schema.TableRef{Database: "app", Table: "users"}

	data := must.Must(editor.FromState(ref, state).Marshal())
	parsed := must.Must(editor.ParseTableDef(data))

	c.Assert(parsed.Ref(), qt.Equals, ref)
	c.Assert(parsed.Columns, qt.HasLen, 2)
	c.Assert(parsed.Indexes, qt.HasLen, 1)
	c.Assert(parsed.ForeignKeys, qt.HasLen, 1)
}

func TestApplyDef_NoEditsIsNoOp(t *testing.T) {
	c := qt.New(t)

	s := editor.NewSession(ref, loadedState(), nil)
	def := editor.FromState(ref, s.Working())

	c.Assert(s.ApplyDef(def), qt.IsNil)
	c.Assert(s.Plan().HasChanges, qt.IsFalse)
}

func TestApplyDef_RenameAddAndDrop(t *testing.T) {
	c := qt.New(t)

	s := editor.NewSession(ref, loadedState(), nil)

	def := must.Must(editor.ParseTableDef([]byte(`
table: t
columns:
  - name: id
    type: INT
    primary_key: true
    auto_increment: true
  - name: email_addr
    renamed_from: email
    type: VARCHAR
    length: 255
  - name: created_at
    type: TIMESTAMP
    nullable: true
indexes:
  - name: idx_email
    columns: [email_addr]
`)))

	c.Assert(s.ApplyDef(def), qt.IsNil)

	plan := s.Plan()
	c.Assert(plan.Statements, qt.DeepEquals, []string{
		"ALTER TABLE `t` ADD COLUMN `created_at` TIMESTAMP NULL;",
		"ALTER TABLE `t` CHANGE COLUMN `email` `email_addr` VARCHAR(255) NOT NULL;",
	})
}

func TestApplyDef_DropsUnmentionedEntities(t *testing.T) {
	c := qt.New(t)

	s := editor.NewSession(ref, loadedState(), nil)

	def := must.Must(editor.ParseTableDef([]byte(`
table: t
columns:
  - name: id
    type: INT
    primary_key: true
    auto_increment: true
`)))

	c.Assert(s.ApplyDef(def), qt.IsNil)

	plan := s.Plan()
	c.Assert(plan.Statements, qt.DeepEquals, []string{
		"ALTER TABLE `t` DROP COLUMN `email`;",
		"DROP INDEX `idx_email` ON `t`;",
	})
}

func TestApplyDef_UnknownRenameSource(t *testing.T) {
	c := qt.New(t)

	s := editor.NewSession(ref, loadedState(), nil)

	def := must.Must(editor.ParseTableDef([]byte(`
table: t
columns:
  - name: nickname
    renamed_from: ghost
    type: VARCHAR
`)))

	err := s.ApplyDef(def)
	c.Assert(err, qt.ErrorMatches, `column "nickname" renames "ghost", which does not exist`)
}
