// Package config provides configuration options for the tableplan change-plan
// compiler.
//
// This package provides a simple, programmatic API for configuring plan
// generation when using tableplan as a library. It focuses on clean Go APIs
// rather than external configuration file management.
package config

// DefaultUniqueIndexPrefix is the prefix used to synthesize the name of the
// unique index created (or dropped) when a column's unique flag is toggled.
const DefaultUniqueIndexPrefix = "uq_"

// PlanOptions contains configuration options for change-plan generation.
type PlanOptions struct {
	// UniqueIndexPrefix is prepended to a column name to form the name of
	// the single-column unique index backing that column's unique flag.
	//
	// Dropping such an index is best-effort: if the unique index was created
	// through another path, the synthesized name may not match the name the
	// server actually assigned.
	UniqueIndexPrefix string
}

// DefaultPlanOptions returns plan options with sensible defaults.
func DefaultPlanOptions() *PlanOptions {
	return &PlanOptions{
		UniqueIndexPrefix: DefaultUniqueIndexPrefix,
	}
}

// WithUniqueIndexPrefix returns a new PlanOptions with the given unique-index
// name prefix.
func WithUniqueIndexPrefix(prefix string) *PlanOptions {
	return &PlanOptions{
		UniqueIndexPrefix: prefix,
	}
}

// UniqueIndexName synthesizes the unique-index name for a column.
func (o *PlanOptions) UniqueIndexName(column string) string {
	prefix := o.UniqueIndexPrefix
	if prefix == "" {
		prefix = DefaultUniqueIndexPrefix
	}
	return prefix + column
}
