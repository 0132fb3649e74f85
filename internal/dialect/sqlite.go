package dialect

import (
	"errors"
	"strconv"
	"strings"

	"db-gate/internal/dberr"

	"modernc.org/sqlite"
)

type SQLiteDialect struct{}

// SQLite folds most statement failures into SQLITE_ERROR (1), so table and
// column problems are told apart by message.
var sqliteClassifier = dberr.NewClassifier("sqlite", sqliteNative, dberr.CodeTable{
	Exact: map[string]dberr.Kind{
		"2067": dberr.KindDuplicateKey, // SQLITE_CONSTRAINT_UNIQUE
		"1555": dberr.KindDuplicateKey, // SQLITE_CONSTRAINT_PRIMARYKEY
		"787":  dberr.KindForeignKey,   // SQLITE_CONSTRAINT_FOREIGNKEY
		"14":   dberr.KindConnection,   // SQLITE_CANTOPEN
		"26":   dberr.KindConnection,   // SQLITE_NOTADB
	},
	Patterns: []dberr.Pattern{
		{Contains: "no such table", Kind: dberr.KindUnknownTable},
		{Contains: "unknown database", Kind: dberr.KindUnknownTable},
		{Contains: "no such column", Kind: dberr.KindUnknownColumn},
		{Contains: "has no column named", Kind: dberr.KindUnknownColumn},
		{Contains: "unique constraint failed", Kind: dberr.KindDuplicateKey},
		{Contains: "foreign key constraint failed", Kind: dberr.KindForeignKey},
		{Contains: "syntax error", Kind: dberr.KindSyntax},
	},
})

func sqliteNative(err error) (dberr.Native, bool) {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return dberr.Native{Code: strconv.Itoa(liteErr.Code()), Message: liteErr.Error()}, true
	}
	return dberr.Native{}, false
}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) QuoteIdentifier(name string) string {
	return quoteWith(name, `"`, `"`)
}

func (d *SQLiteDialect) Placeholder(index int) string {
	return "?"
}

func (d *SQLiteDialect) GetSchemaName(input string) string {
	if s := strings.TrimSpace(input); s != "" {
		return s
	}
	return "main"
}

func (d *SQLiteDialect) LimitStyle() LimitStyle { return LimitClause }

func (d *SQLiteDialect) Classifier() *dberr.Classifier { return sqliteClassifier }

func (d *SQLiteDialect) ColumnsQuery(schema, table string) (string, []any) {
	return `SELECT
    name,
    type,
    CASE WHEN "notnull" = 0 AND pk = 0 THEN 'YES' ELSE 'NO' END,
    CASE WHEN pk = 1 AND lower(type) = 'integer' THEN 'auto' ELSE '' END,
    NULL
FROM pragma_table_info(?, ?)
ORDER BY cid`, []any{table, d.GetSchemaName(schema)}
}

func (d *SQLiteDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch {
	case strings.Contains(t, "int"):
		return "int"
	case strings.Contains(t, "char"), strings.Contains(t, "clob"), strings.Contains(t, "text"):
		return "varchar"
	case strings.Contains(t, "real"), strings.Contains(t, "floa"), strings.Contains(t, "doub"):
		return "float"
	case strings.Contains(t, "bool"):
		return "boolean"
	case strings.Contains(t, "date"), strings.Contains(t, "time"):
		return "datetime"
	case strings.Contains(t, "blob"), t == "":
		return "blob"
	default:
		return t
	}
}
