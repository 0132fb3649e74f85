package dialect

import (
	"fmt"
	"strings"
)

// GetDialect returns the Dialect for a database/sql driver name.
func GetDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pgx":
		return postgres, nil
	case "mysql":
		return mysqlDialect, nil
	case "sqlserver", "mssql":
		return mssqlDialect, nil
	case "oracle":
		return oracle, nil
	case "sqlite", "sqlite3":
		return sqliteDialect, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// Policies are stateless; one shared instance per dialect.
var (
	postgres      = &PostgresDialect{}
	mysqlDialect  = &MysqlDialect{}
	mssqlDialect  = &MSSQLDialect{}
	oracle        = &OracleDialect{}
	sqliteDialect = &SQLiteDialect{}
)

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
var _ Dialect = (*SQLiteDialect)(nil)
