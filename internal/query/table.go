// Package query turns table access requests into dialect-correct SQL text
// plus ordered parameter bindings. Values never appear in the SQL text; only
// quoted identifiers do.
package query

import (
	"strings"

	"db-gate/internal/dberr"
	"db-gate/internal/dialect"
)

// Table is the caller's table reference. Schema may be blank.
type Table struct {
	Schema string
	Name   string
}

func (t Table) String() string {
	if s := strings.TrimSpace(t.Schema); s != "" {
		return s + "." + strings.TrimSpace(t.Name)
	}
	return strings.TrimSpace(t.Name)
}

// Ref is a normalized table reference. Schema is empty when the dialect
// resolves unqualified names against the connection's current database.
type Ref struct {
	Schema string
	Name   string
}

func (r Ref) String() string {
	if r.Schema == "" {
		return r.Name
	}
	return r.Schema + "." + r.Name
}

// Normalize trims both names, substitutes the dialect default schema and
// rejects a blank table name.
func Normalize(d dialect.Dialect, op string, t Table) (Ref, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return Ref{}, dberr.Validation(op, "table", "must not be blank")
	}
	if err := checkIdentifier(op, "table", name); err != nil {
		return Ref{}, err
	}
	schema := d.GetSchemaName(t.Schema)
	if err := checkIdentifier(op, "schema", schema); err != nil {
		return Ref{}, err
	}
	return Ref{Schema: schema, Name: name}, nil
}

// Column trims a column name and rejects blank names.
func Column(op, param, name string) (string, error) {
	c := strings.TrimSpace(name)
	if c == "" {
		return "", dberr.Validation(op, param, "must not be blank")
	}
	if err := checkIdentifier(op, param, c); err != nil {
		return "", err
	}
	return c, nil
}

// checkIdentifier rejects names no backend accepts even when quoted.
func checkIdentifier(op, param, name string) error {
	if strings.ContainsRune(name, 0) {
		return dberr.Validation(op, param, "must not contain NUL bytes")
	}
	return nil
}
