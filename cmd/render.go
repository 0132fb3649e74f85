package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"db-gate/internal/record"

	"github.com/jedib0t/go-pretty/v6/table"
)

func renderRows(w io.Writer, rows []record.Row, format string) error {
	switch format {
	case "json":
		return renderJSON(w, rows)
	case "csv":
		return renderCSV(w, rows)
	case "", "table":
		return renderTable(w, rows)
	default:
		return fmt.Errorf("unknown format %q (table, json or csv)", format)
	}
}

func renderTable(w io.Writer, rows []record.Row) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	cols := rows[0].Columns()
	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, r := range rows {
		line := make(table.Row, 0, r.Len())
		for _, f := range r.Fields() {
			line = append(line, formatValue(f.Value))
		}
		t.AppendRow(line)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderJSON(w io.Writer, rows []record.Row) error {
	out := make([]jsonRow, len(rows))
	for i, r := range rows {
		out[i] = jsonRow(r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// jsonRow encodes a row as an object whose keys follow the result set's
// column order. Repeated column names are all written.
type jsonRow record.Row

func (r jsonRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range record.Row(r).Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(jsonValue(f.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// renderCSV writes RFC 4180 CSV. NULL is written as the same marker the
// table format uses.
func renderCSV(w io.Writer, rows []record.Row) error {
	if len(rows) == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(rows[0].Columns()); err != nil {
		return err
	}
	for _, r := range rows {
		fields := r.Fields()
		values := make([]string, len(fields))
		for i, f := range fields {
			values[i] = formatValue(f.Value)
		}
		if err := cw.Write(values); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v record.Value) string {
	if v.IsNull() {
		return "NULL"
	}
	return v.String()
}

func jsonValue(v record.Value) any {
	switch v.Kind() {
	case record.KindNull:
		return nil
	case record.KindInt:
		i, _ := v.Int64()
		return i
	case record.KindFloat:
		f, _ := v.Float64()
		return f
	case record.KindBool:
		b, _ := v.Bool()
		return b
	default:
		return v.String()
	}
}
