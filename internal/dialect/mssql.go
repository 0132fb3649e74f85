package dialect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"db-gate/internal/dberr"

	mssql "github.com/denisenkom/go-mssqldb" // SQL Server Driver
)

type MSSQLDialect struct{}

var mssqlClassifier = dberr.NewClassifier("sqlserver", mssqlNative, dberr.CodeTable{
	Exact: map[string]dberr.Kind{
		"208":   dberr.KindUnknownTable, // invalid object name
		"207":   dberr.KindUnknownColumn,
		"2627":  dberr.KindDuplicateKey, // unique/primary key constraint
		"2601":  dberr.KindDuplicateKey, // unique index
		"547":   dberr.KindForeignKey,
		"102":   dberr.KindSyntax,
		"156":   dberr.KindSyntax,
		"18456": dberr.KindConnection, // login failed
		"4060":  dberr.KindConnection, // cannot open database
	},
})

func mssqlNative(err error) (dberr.Native, bool) {
	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return dberr.Native{Code: strconv.Itoa(int(msErr.Number)), Message: msErr.Message}, true
	}
	return dberr.Native{}, false
}

func (d *MSSQLDialect) Name() string { return "sqlserver" }

func (d *MSSQLDialect) QuoteIdentifier(name string) string {
	return quoteWith(name, "[", "]")
}

// Helper: MSSQL Driver (go-mssqldb) prefers @p1, @p2 ordinal parameters over ?
func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if s := strings.TrimSpace(input); s != "" {
		return s
	}
	return "dbo"
}

// LimitStyle uses T-SQL TOP with a literal count.
func (d *MSSQLDialect) LimitStyle() LimitStyle { return LimitTop }

func (d *MSSQLDialect) Classifier() *dberr.Classifier { return mssqlClassifier }

func (d *MSSQLDialect) ColumnsQuery(schema, table string) (string, []any) {
	return `SELECT
    c.COLUMN_NAME,
    c.DATA_TYPE,
    c.IS_NULLABLE,
    CASE WHEN COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsIdentity') = 1 THEN 'auto' ELSE '' END,
    c.CHARACTER_MAXIMUM_LENGTH
FROM INFORMATION_SCHEMA.COLUMNS c
WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
ORDER BY c.ORDINAL_POSITION`, []any{d.GetSchemaName(schema), table}
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "nvarchar", "nchar", "text", "ntext":
		return "varchar"
	case "bit":
		return "boolean"
	case "decimal", "numeric", "money", "smallmoney":
		return "decimal"
	case "float", "real":
		return "float"
	case "datetime", "datetime2", "smalldatetime", "datetimeoffset":
		return "datetime"
	case "image", "binary", "varbinary":
		return "blob"
	default:
		return t
	}
}
