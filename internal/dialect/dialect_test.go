package dialect_test

import (
	"errors"
	"fmt"
	"testing"

	"db-gate/internal/dberr"
	"db-gate/internal/dialect"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/sijms/go-ora/v2/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDialect(t *testing.T, driver string) dialect.Dialect {
	t.Helper()
	d, err := dialect.GetDialect(driver)
	require.NoError(t, err)
	return d
}

func TestGetDialect(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{driver: "postgres", name: "postgres"},
		{driver: "pgx", name: "postgres"},
		{driver: "mysql", name: "mysql"},
		{driver: "sqlserver", name: "sqlserver"},
		{driver: "MSSQL", name: "sqlserver"},
		{driver: "oracle", name: "oracle"},
		{driver: " sqlite ", name: "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			assert.Equal(t, tt.name, mustDialect(t, tt.driver).Name())
		})
	}

	_, err := dialect.GetDialect("db2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		driver string
		in     string
		want   string
	}{
		{driver: "postgres", in: "users", want: `"users"`},
		{driver: "postgres", in: `a"; DROP TABLE x; --`, want: `"a""; DROP TABLE x; --"`},
		{driver: "mysql", in: "users", want: "`users`"},
		{driver: "mysql", in: "a`b", want: "`a``b`"},
		{driver: "sqlserver", in: "users", want: "[users]"},
		{driver: "sqlserver", in: "a]b", want: "[a]]b]"},
		{driver: "oracle", in: "USERS", want: `"USERS"`},
		{driver: "sqlite", in: `x"y`, want: `"x""y"`},
	}

	for _, tt := range tests {
		t.Run(tt.driver+"/"+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, mustDialect(t, tt.driver).QuoteIdentifier(tt.in))
		})
	}
}

func TestPlaceholdersAndSchemas(t *testing.T) {
	tests := []struct {
		driver        string
		first, third  string
		defaultSchema string
		limit         dialect.LimitStyle
	}{
		{driver: "postgres", first: "$1", third: "$3", defaultSchema: "public", limit: dialect.LimitClause},
		{driver: "mysql", first: "?", third: "?", defaultSchema: "", limit: dialect.LimitClause},
		{driver: "sqlserver", first: "@p1", third: "@p3", defaultSchema: "dbo", limit: dialect.LimitTop},
		{driver: "oracle", first: ":1", third: ":3", defaultSchema: "", limit: dialect.LimitFetchFirst},
		{driver: "sqlite", first: "?", third: "?", defaultSchema: "main", limit: dialect.LimitClause},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d := mustDialect(t, tt.driver)
			assert.Equal(t, tt.first, d.Placeholder(0))
			assert.Equal(t, tt.third, d.Placeholder(2))
			assert.Equal(t, tt.defaultSchema, d.GetSchemaName("  "))
			assert.Equal(t, "sales", d.GetSchemaName(" sales "))
			assert.Equal(t, tt.limit, d.LimitStyle())
		})
	}
}

func TestGeneratePlaceholders(t *testing.T) {
	pg := mustDialect(t, "postgres")
	assert.Equal(t, "$2, $3, $4", dialect.GeneratePlaceholders(1, 3, pg.Placeholder))
	assert.Equal(t, "", dialect.GeneratePlaceholders(0, 0, pg.Placeholder))
}

func TestClassifiers(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		err    error
		kind   dberr.Kind
		code   string
	}{
		{name: "pq unique", driver: "postgres", err: &pq.Error{Code: "23505", Message: "duplicate key value"}, kind: dberr.KindDuplicateKey, code: "23505"},
		{name: "pq connection class", driver: "postgres", err: &pq.Error{Code: "08006", Message: "connection failure"}, kind: dberr.KindConnection, code: "08006"},
		{name: "pgx undefined table", driver: "pgx", err: &pgconn.PgError{Code: "42P01", Message: `relation "x" does not exist`}, kind: dberr.KindUnknownTable, code: "42P01"},
		{name: "pgx undefined column", driver: "pgx", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: "42703"}), kind: dberr.KindUnknownColumn, code: "42703"},
		{name: "pq unmapped", driver: "postgres", err: &pq.Error{Code: "22P02", Message: "invalid input syntax"}, kind: dberr.KindBackend, code: "22P02"},
		{name: "mysql no table", driver: "mysql", err: &mysql.MySQLError{Number: 1146, Message: "Table 'x.y' doesn't exist"}, kind: dberr.KindUnknownTable, code: "1146"},
		{name: "mysql fk", driver: "mysql", err: &mysql.MySQLError{Number: 1452}, kind: dberr.KindForeignKey, code: "1452"},
		{name: "mysql syntax", driver: "mysql", err: &mysql.MySQLError{Number: 1064}, kind: dberr.KindSyntax, code: "1064"},
		{name: "mysql invalid conn", driver: "mysql", err: mysql.ErrInvalidConn, kind: dberr.KindConnection},
		{name: "mssql bad column", driver: "sqlserver", err: mssql.Error{Number: 207, Message: "Invalid column name 'x'."}, kind: dberr.KindUnknownColumn, code: "207"},
		{name: "mssql duplicate", driver: "sqlserver", err: mssql.Error{Number: 2627}, kind: dberr.KindDuplicateKey, code: "2627"},
		{name: "mssql login", driver: "sqlserver", err: mssql.Error{Number: 18456}, kind: dberr.KindConnection, code: "18456"},
		{name: "oracle missing table", driver: "oracle", err: &network.OracleError{ErrCode: 942, ErrMsg: "ORA-00942: table or view does not exist"}, kind: dberr.KindUnknownTable, code: "ORA-00942"},
		{name: "oracle unique", driver: "oracle", err: &network.OracleError{ErrCode: 1}, kind: dberr.KindDuplicateKey, code: "ORA-00001"},
		{name: "foreign error type is not native", driver: "oracle", err: &pq.Error{Code: "23505"}, kind: dberr.KindBackend},
		{name: "sqlite message fallback", driver: "sqlite", err: errors.New("no such table: users"), kind: dberr.KindUnknownTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustDialect(t, tt.driver)
			got := d.Classifier().Classify("read-all", "users", tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.code, got.Code)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestColumnsQuery(t *testing.T) {
	q, args := mustDialect(t, "mysql").ColumnsQuery("", "users")
	assert.Contains(t, q, "DATABASE()")
	assert.Equal(t, []any{"users"}, args)

	q, args = mustDialect(t, "mysql").ColumnsQuery("shop", "users")
	assert.Contains(t, q, "TABLE_SCHEMA = ?")
	assert.Equal(t, []any{"shop", "users"}, args)

	_, args = mustDialect(t, "postgres").ColumnsQuery("", "users")
	assert.Equal(t, []any{"public", "users"}, args)

	q, args = mustDialect(t, "oracle").ColumnsQuery("", "USERS")
	assert.Contains(t, q, "USER_TAB_COLUMNS")
	assert.Equal(t, []any{"USERS"}, args)

	q, args = mustDialect(t, "sqlite").ColumnsQuery("", "users")
	assert.Contains(t, q, "pragma_table_info")
	assert.Equal(t, []any{"users", "main"}, args)
}

func TestNormalizeType(t *testing.T) {
	assert.Equal(t, "int", mustDialect(t, "postgres").NormalizeType("int4"))
	assert.Equal(t, "boolean", mustDialect(t, "sqlserver").NormalizeType("bit"))
	assert.Equal(t, "varchar", mustDialect(t, "oracle").NormalizeType("VARCHAR2"))
	assert.Equal(t, "int", mustDialect(t, "sqlite").NormalizeType("INTEGER"))
	assert.Equal(t, "varchar", mustDialect(t, "mysql").NormalizeType("VARCHAR"))
}
