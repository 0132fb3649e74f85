// Package seed fills a table with generated rows through the access port.
package seed

import (
	"fmt"
	"strings"
	"time"

	"db-gate/internal/record"
	"db-gate/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
)

// Generator produces plausible values from a column's type and meaning.
// A Generator is not safe for concurrent use.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator seeds the underlying faker. Seed 0 picks a random seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed), now: time.Now}
}

// Row generates a field set for every writable column of t.
func (g *Generator) Row(t *schema.Table) record.FieldSet {
	cols := t.Writable()
	fs := make(record.FieldSet, 0, len(cols))
	for _, c := range cols {
		fs = append(fs, record.Field{Name: c.Name, Value: g.Value(c)})
	}
	return fs
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}

// Value generates one value for col. Text columns are shaped by the column
// meaning; everything else by the normalized data type.
func (g *Generator) Value(col *schema.Column) record.Value {
	dataType := strings.ToLower(col.DataType)
	f := g.faker

	switch {
	case isText(dataType):
		return record.Text(truncate(g.text(col), col.Length))

	case strings.Contains(dataType, "date") || strings.Contains(dataType, "time"):
		now := g.now()
		ts := f.DateRange(now.AddDate(-1, 0, 0), now).UTC()
		if dataType == "date" {
			ts = ts.Truncate(24 * time.Hour)
		}
		return record.Timestamp(ts)

	case strings.Contains(dataType, "bool") || dataType == "bit":
		return record.Bool(f.Bool())

	case strings.Contains(dataType, "int"):
		if col.Meaning == "yesno" {
			return record.Int(int64(f.Number(0, 1)))
		}
		if col.Meaning == "year" {
			return record.Int(int64(f.Number(2000, 2025)))
		}
		return record.Int(int64(f.Number(1, intCeiling(dataType, col.Length))))

	case strings.Contains(dataType, "decimal") || strings.Contains(dataType, "numeric") ||
		strings.Contains(dataType, "float") || strings.Contains(dataType, "double") ||
		strings.Contains(dataType, "real"):
		return record.Float(f.Price(0.99, 99.99))

	case strings.Contains(dataType, "binary") || strings.Contains(dataType, "blob") ||
		strings.Contains(dataType, "bytea") || strings.Contains(dataType, "raw"):
		return record.Binary([]byte(f.Word()))
	}

	if col.IsNullable {
		return record.Null()
	}
	return record.Text(truncate(f.Word(), col.Length))
}

func isText(dataType string) bool {
	for _, s := range []string{"char", "text", "clob", "string", "uuid"} {
		if strings.Contains(dataType, s) {
			return true
		}
	}
	return false
}

func (g *Generator) text(col *schema.Column) string {
	f := g.faker
	switch col.Meaning {
	case "email":
		return f.Email()
	case "password":
		return f.Password(true, true, true, false, false, 16)
	case "phone":
		return f.Phone()
	case "zipcode":
		return f.Zip()
	case "address":
		return f.Street()
	case "city":
		return f.City()
	case "country":
		return f.Country()
	case "url":
		return f.URL()
	case "ip":
		return f.IPv4Address()
	case "name":
		if strings.Contains(strings.ToLower(col.Name), "user") || strings.Contains(strings.ToLower(col.Name), "login") {
			return f.Username()
		}
		return f.Name()
	case "title":
		return f.Sentence(3)
	case "description":
		return f.Sentence(10)
	case "status":
		return []string{"new", "active", "closed"}[f.Number(0, 2)]
	case "yesno":
		if f.Bool() {
			return "Y"
		}
		return "N"
	case "year":
		return fmt.Sprintf("%d", f.Number(2000, 2025))
	case "date":
		return f.DateRange(g.now().AddDate(-1, 0, 0), g.now()).UTC().Format("2006-01-02 15:04:05")
	}
	if col.Length > 0 && col.Length < 20 {
		return f.Word()
	}
	return f.Sentence(5)
}

// intCeiling bounds generated integers by type width and declared precision.
func intCeiling(dataType string, length int) int {
	ceiling := 50000
	switch {
	case strings.Contains(dataType, "tinyint"):
		ceiling = 127
	case strings.Contains(dataType, "smallint"):
		ceiling = 30000
	}
	if length > 0 && length < 10 {
		limit := 1
		for i := 0; i < length; i++ {
			limit *= 10
		}
		if limit-1 < ceiling {
			ceiling = limit - 1
		}
	}
	if ceiling < 1 {
		ceiling = 9
	}
	return ceiling
}
