package dialect

import (
	"errors"
	"strconv"

	"db-gate/internal/dberr"

	"github.com/go-sql-driver/mysql"
)

type MysqlDialect struct{}

var mysqlClassifier = dberr.NewClassifier("mysql", mysqlNative, dberr.CodeTable{
	Exact: map[string]dberr.Kind{
		"1146": dberr.KindUnknownTable, // ER_NO_SUCH_TABLE
		"1049": dberr.KindUnknownTable, // ER_BAD_DB_ERROR
		"1054": dberr.KindUnknownColumn,
		"1062": dberr.KindDuplicateKey,
		"1586": dberr.KindDuplicateKey,
		"1216": dberr.KindForeignKey,
		"1217": dberr.KindForeignKey,
		"1451": dberr.KindForeignKey,
		"1452": dberr.KindForeignKey,
		"1064": dberr.KindSyntax,
		"1044": dberr.KindConnection,
		"1045": dberr.KindConnection,
		"1040": dberr.KindConnection, // too many connections
		"2002": dberr.KindConnection,
		"2003": dberr.KindConnection,
		"2006": dberr.KindConnection,
		"2013": dberr.KindConnection,
	},
	Patterns: []dberr.Pattern{
		{Contains: "invalid connection", Kind: dberr.KindConnection},
	},
})

func mysqlNative(err error) (dberr.Native, bool) {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return dberr.Native{Code: strconv.Itoa(int(myErr.Number)), Message: myErr.Message}, true
	}
	return dberr.Native{}, false
}

func (d *MysqlDialect) Name() string { return "mysql" }

func (d *MysqlDialect) QuoteIdentifier(name string) string {
	return quoteWith(name, "`", "`")
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

// GetSchemaName leaves the table unqualified when no schema is given so it
// resolves against the database selected in the DSN.
func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

func (d *MysqlDialect) LimitStyle() LimitStyle { return LimitClause }

func (d *MysqlDialect) Classifier() *dberr.Classifier { return mysqlClassifier }

func (d *MysqlDialect) ColumnsQuery(schema, table string) (string, []any) {
	const cols = `SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE, IF(EXTRA LIKE '%auto_increment%', 'auto', ''), CHARACTER_MAXIMUM_LENGTH FROM information_schema.COLUMNS`
	if s := d.GetSchemaName(schema); s != "" {
		return cols + ` WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`, []any{s, table}
	}
	return cols + ` WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`, []any{table}
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}
