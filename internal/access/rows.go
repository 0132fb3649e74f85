package access

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"db-gate/internal/record"

	"github.com/jmoiron/sqlx"
)

type rowMapper struct {
	columns []string
	types   []string
}

func newRowMapper(rows *sqlx.Rows) (*rowMapper, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	m := &rowMapper{columns: cols, types: make([]string, len(cols))}
	cts, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	for i, ct := range cts {
		if i < len(m.types) {
			m.types[i] = strings.ToUpper(ct.DatabaseTypeName())
		}
	}
	return m, nil
}

func (m *rowMapper) mapRow(raw []any) (record.Row, error) {
	if len(raw) != len(m.columns) {
		return record.Row{}, fmt.Errorf("row has %d values for %d columns", len(raw), len(m.columns))
	}
	vals := make([]record.Value, len(raw))
	for i, x := range raw {
		v, err := convert(x, m.types[i])
		if err != nil {
			return record.Row{}, fmt.Errorf("column %q: %w", m.columns[i], err)
		}
		vals[i] = v
	}
	return record.NewRow(m.columns, vals), nil
}

// convert turns a driver value into a record.Value. Drivers that return
// text-protocol results as []byte are decoded by declared column type.
func convert(x any, dbType string) (record.Value, error) {
	switch t := x.(type) {
	case nil:
		return record.Null(), nil
	case []byte:
		return fromBytes(t, dbType), nil
	case time.Time:
		return record.Timestamp(t), nil
	default:
		return record.Of(x)
	}
}

var binaryTypes = []string{"BLOB", "BINARY", "BYTEA", "IMAGE", "RAW", "BIT", "GEOMETRY", "POINT", "POLYGON", "LINESTRING"}

func fromBytes(b []byte, dbType string) record.Value {
	for _, bt := range binaryTypes {
		if strings.Contains(dbType, bt) {
			return record.Binary(b)
		}
	}
	s := string(b)
	switch {
	case strings.Contains(dbType, "INT"):
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return record.Int(i)
		}
	case dbType == "FLOAT", dbType == "DOUBLE", dbType == "REAL":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return record.Float(f)
		}
	}
	if !utf8.ValidString(s) {
		return record.Binary(b)
	}
	return record.Text(s)
}

// scalarText renders a single looked-up value as text.
func scalarText(x any) (string, error) {
	switch t := x.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	default:
		v, err := record.Of(x)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	}
}
