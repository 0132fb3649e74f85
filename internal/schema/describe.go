package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"db-gate/internal/conn"
	"db-gate/internal/dberr"
	"db-gate/internal/dialect"
	"db-gate/internal/query"
)

const OpDescribe = "describe"

// Describe loads the columns of t in ordinal order. A table without any
// visible column is reported as UnknownTable.
func Describe(ctx context.Context, c conn.Connector, d dialect.Dialect, t query.Table) (*Table, error) {
	ref, err := query.Normalize(d, OpDescribe, t)
	if err != nil {
		return nil, err
	}
	classify := func(err error) error {
		return d.Classifier().Classify(OpDescribe, ref.String(), err)
	}

	cx, err := c.Connect(ctx)
	if err != nil {
		return nil, classify(err)
	}
	defer cx.Close()

	q, args := d.ColumnsQuery(ref.Schema, ref.Name)
	rows, err := cx.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	table := &Table{Ref: ref}
	for rows.Next() {
		var name, rawType, nullable, auto, length sql.NullString
		if err := rows.Scan(&name, &rawType, &nullable, &auto, &length); err != nil {
			return nil, classify(fmt.Errorf("scan column: %w", err))
		}
		if !name.Valid {
			continue
		}
		table.Columns = append(table.Columns, &Column{
			Name:       name.String,
			RawType:    rawType.String,
			DataType:   d.NormalizeType(rawType.String),
			Length:     parseLength(length),
			IsNullable: strings.EqualFold(nullable.String, "YES"),
			IsAutoInc:  auto.String == "auto",
			Meaning:    AnalyzeMeaning(name.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	if len(table.Columns) == 0 {
		return nil, &dberr.Error{
			Kind:    dberr.KindUnknownTable,
			Op:      OpDescribe,
			Table:   ref.String(),
			Message: "table has no visible columns",
		}
	}
	return table, nil
}

// parseLength accepts integer and float renderings; some backends report
// character lengths as NUMERIC.
func parseLength(s sql.NullString) int {
	if !s.Valid || s.String == "" {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(s.String, "%d", &n); err == nil && n > 0 {
		return n
	}
	var f float64
	if _, err := fmt.Sscanf(s.String, "%f", &f); err == nil && f > 0 {
		return int(f)
	}
	return 0
}
