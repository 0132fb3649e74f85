// Package schema reads the column layout of one table.
package schema

import "db-gate/internal/query"

type Table struct {
	Ref     query.Ref
	Columns []*Column
}

type Column struct {
	Name       string
	RawType    string // as reported by the backend
	DataType   string // normalized by the dialect
	Length     int    // 0 when unknown or unbounded
	IsNullable bool
	IsAutoInc  bool
	Meaning    string // derived from the column name, e.g. "email", "phone"
}

// Writable returns the columns a client may set on insert.
func (t *Table) Writable() []*Column {
	var cols []*Column
	for _, c := range t.Columns {
		if !c.IsAutoInc {
			cols = append(cols, c)
		}
	}
	return cols
}
