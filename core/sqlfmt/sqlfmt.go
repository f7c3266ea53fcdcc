// Package sqlfmt renders MySQL identifiers for literal embedding in DDL text.
//
// Generated statements are never parameterized, so correct quoting happens
// here and nowhere downstream.
package sqlfmt

import "strings"

// QuoteIdent quotes an identifier with backticks, doubling any embedded
// backtick.
func QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QualifiedName renders an optionally database-qualified table name.
func QualifiedName(database, table string) string {
	if database == "" {
		return QuoteIdent(table)
	}
	return QuoteIdent(database) + "." + QuoteIdent(table)
}

// QuoteIdentList quotes each identifier and joins them with ", ", the form
// used for index column lists.
func QuoteIdentList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}
