package dialect

import (
	"errors"
	"fmt"
	"strings"

	"db-gate/internal/dberr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PostgresDialect serves both the lib/pq ("postgres") and pgx ("pgx") drivers.
type PostgresDialect struct{}

var postgresClassifier = dberr.NewClassifier("postgres", postgresNative, dberr.CodeTable{
	Exact: map[string]dberr.Kind{
		"42P01": dberr.KindUnknownTable,  // undefined_table
		"3F000": dberr.KindUnknownTable,  // invalid_schema_name
		"42703": dberr.KindUnknownColumn, // undefined_column
		"23505": dberr.KindDuplicateKey,  // unique_violation
		"23503": dberr.KindForeignKey,    // foreign_key_violation
		"42601": dberr.KindSyntax,        // syntax_error
		"28000": dberr.KindConnection,    // invalid_authorization_specification
		"28P01": dberr.KindConnection,    // invalid_password
		"3D000": dberr.KindConnection,    // invalid_catalog_name
		"57P03": dberr.KindConnection,    // cannot_connect_now
	},
	Prefix: map[string]dberr.Kind{
		"08": dberr.KindConnection,
	},
})

func postgresNative(err error) (dberr.Native, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return dberr.Native{Code: string(pqErr.Code), Message: pqErr.Message}, true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return dberr.Native{Code: pgErr.Code, Message: pgErr.Message}, true
	}
	return dberr.Native{}, false
}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) QuoteIdentifier(name string) string {
	return quoteWith(name, `"`, `"`)
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if s := strings.TrimSpace(input); s != "" {
		return s
	}
	return "public"
}

func (d *PostgresDialect) LimitStyle() LimitStyle { return LimitClause }

func (d *PostgresDialect) Classifier() *dberr.Classifier { return postgresClassifier }

func (d *PostgresDialect) ColumnsQuery(schema, table string) (string, []any) {
	return `SELECT
    c.column_name,
    c.udt_name,
    c.is_nullable,
    CASE WHEN c.is_identity = 'YES' OR c.column_default LIKE 'nextval%' THEN 'auto' ELSE '' END,
    c.character_maximum_length
FROM information_schema.columns c
WHERE c.table_schema = $1 AND c.table_name = $2
ORDER BY c.ordinal_position`, []any{d.GetSchemaName(schema), table}
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "int4", "int2", "integer", "smallint":
		return "int"
	case "int8", "bigint":
		return "bigint"
	case "float4", "real":
		return "float"
	case "float8", "double precision":
		return "double"
	case "bpchar":
		return "char"
	case "bool":
		return "boolean"
	case "timestamptz", "timestamp":
		return "datetime"
	default:
		return t
	}
}
