package schema

// IndexRow is one flat row of index introspection output: one row per column
// per index, as returned by the catalog (information_schema.statistics).
type IndexRow struct {
	Name       string `json:"name"`
	ColumnName string `json:"column_name"`
	NonUnique  bool   `json:"non_unique"`
	IndexType  string `json:"index_type"`
}

// GroupIndexRows folds flat index rows into grouped Index entities.
//
// Rows sharing a name form one index whose Columns sequence preserves the
// first-seen row order. Uniqueness is taken from the first row of the group.
// The grouped type is UNIQUE for unique indexes; otherwise it is the row's
// index type, promoted to FULLTEXT when any row of the group reports
// FULLTEXT. Introspection emits the FULLTEXT flag inconsistently across the
// rows of one index, so the promotion must consider every row.
//
// Rows with an empty name lack the grouping key and are skipped. The same
// grouping is applied to introspected rows and to synthetic rows built for
// user-created indexes, so both sides of a later diff are structurally
// comparable.
func GroupIndexRows(rows []IndexRow) []Index {
	grouped := make(map[string]*Index)
	var order []string

	for _, row := range rows {
		if row.Name == "" {
			continue
		}
		idx, ok := grouped[row.Name]
		if !ok {
			idx = &Index{
				Name:   row.Name,
				Unique: !row.NonUnique,
			}
			grouped[row.Name] = idx
			order = append(order, row.Name)
		}
		idx.Columns = append(idx.Columns, row.ColumnName)
		switch {
		case idx.Unique:
			idx.Type = IndexTypeUnique
		case row.IndexType == IndexTypeFulltext:
			idx.Type = IndexTypeFulltext
		case idx.Type != IndexTypeFulltext:
			idx.Type = row.IndexType
		}
	}

	out := make([]Index, 0, len(order))
	for _, name := range order {
		out = append(out, *grouped[name])
	}
	return out
}

// SyntheticIndexRows expands a user-created index into flat rows, one per
// selected column, so the editor can feed it back through GroupIndexRows.
func SyntheticIndexRows(name, indexType string, unique bool, columns []string) []IndexRow {
	rows := make([]IndexRow, 0, len(columns))
	for _, col := range columns {
		rows = append(rows, IndexRow{
			Name:       name,
			ColumnName: col,
			NonUnique:  !unique,
			IndexType:  indexType,
		})
	}
	return rows
}
