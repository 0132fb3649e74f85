package dialect

import "db-gate/internal/dberr"

// LimitStyle selects how a row limit is attached to a SELECT.
type LimitStyle int

const (
	// LimitClause appends "LIMIT <placeholder>".
	LimitClause LimitStyle = iota
	// LimitFetchFirst appends "FETCH FIRST <placeholder> ROWS ONLY".
	LimitFetchFirst
	// LimitTop injects "TOP (<n>)" after SELECT. The count is a validated
	// integer literal, not a bound parameter.
	LimitTop
)

// Dialect is the small policy that separates one SQL backend from another.
// Statement construction itself is shared (see package query).
type Dialect interface {
	// Name is the canonical dialect name ("postgres", "mysql", ...).
	Name() string

	// QuoteIdentifier wraps a schema, table or column name in the dialect's
	// quote pair, doubling any embedded closing quote.
	QuoteIdentifier(name string) string

	// Placeholder returns the bind marker for the 0-based parameter index:
	// ?, $1, @p1, :1.
	Placeholder(index int) string

	// GetSchemaName substitutes the default schema for a blank input.
	// An empty result means "leave the table unqualified", i.e. the
	// connection's current database or user schema.
	GetSchemaName(input string) string

	LimitStyle() LimitStyle

	// Classifier maps this dialect's native errors onto the taxonomy.
	Classifier() *dberr.Classifier

	// ColumnsQuery returns the introspection query for one table. Result
	// columns: name, data type, nullable (YES/NO), auto ("auto" or ""),
	// max length (nullable).
	ColumnsQuery(schema, table string) (string, []any)

	NormalizeType(sqlType string) string
}
