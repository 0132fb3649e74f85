package dialect

import (
	"errors"
	"fmt"
	"strings"

	"db-gate/internal/dberr"

	"github.com/sijms/go-ora/v2/network"
)

type OracleDialect struct{}

var oracleClassifier = dberr.NewClassifier("oracle", oracleNative, dberr.CodeTable{
	Exact: map[string]dberr.Kind{
		"ORA-00942": dberr.KindUnknownTable, // table or view does not exist
		"ORA-00904": dberr.KindUnknownColumn,
		"ORA-00001": dberr.KindDuplicateKey,
		"ORA-02291": dberr.KindForeignKey, // parent key not found
		"ORA-02292": dberr.KindForeignKey, // child record found
		"ORA-00900": dberr.KindSyntax,
		"ORA-00901": dberr.KindSyntax,
		"ORA-00906": dberr.KindSyntax,
		"ORA-00907": dberr.KindSyntax,
		"ORA-00923": dberr.KindSyntax,
		"ORA-00933": dberr.KindSyntax,
		"ORA-00936": dberr.KindSyntax,
		"ORA-01017": dberr.KindConnection, // invalid username/password
		"ORA-12154": dberr.KindConnection,
		"ORA-12505": dberr.KindConnection,
		"ORA-12514": dberr.KindConnection,
		"ORA-12541": dberr.KindConnection,
	},
})

func oracleNative(err error) (dberr.Native, bool) {
	var oraErr *network.OracleError
	if errors.As(err, &oraErr) {
		return dberr.Native{Code: fmt.Sprintf("ORA-%05d", oraErr.ErrCode), Message: oraErr.ErrMsg}, true
	}
	return dberr.Native{}, false
}

func (d *OracleDialect) Name() string { return "oracle" }

// QuoteIdentifier quotes with double quotes. Quoted Oracle identifiers are
// case sensitive, so callers must pass names in their stored case.
func (d *OracleDialect) QuoteIdentifier(name string) string {
	return quoteWith(name, `"`, `"`)
}

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}

// GetSchemaName keeps blank schemas blank: unqualified names resolve against
// the connected user's schema.
func (d *OracleDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

// LimitStyle needs Oracle 12c or later.
func (d *OracleDialect) LimitStyle() LimitStyle { return LimitFetchFirst }

func (d *OracleDialect) Classifier() *dberr.Classifier { return oracleClassifier }

func (d *OracleDialect) ColumnsQuery(schema, table string) (string, []any) {
	const cols = `SELECT
    t.COLUMN_NAME,
    t.DATA_TYPE,
    CASE t.NULLABLE WHEN 'Y' THEN 'YES' ELSE 'NO' END,
    CASE WHEN t.IDENTITY_COLUMN = 'YES' THEN 'auto' ELSE '' END,
    t.CHAR_LENGTH
FROM `
	if s := d.GetSchemaName(schema); s != "" {
		return cols + `ALL_TAB_COLUMNS t WHERE t.OWNER = :1 AND t.TABLE_NAME = :2 ORDER BY t.COLUMN_ID`, []any{s, table}
	}
	return cols + `USER_TAB_COLUMNS t WHERE t.TABLE_NAME = :1 ORDER BY t.COLUMN_ID`, []any{table}
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := strings.ToLower(sqlType)
	if strings.Contains(s, "char") || strings.Contains(s, "clob") {
		return "varchar"
	}
	if strings.Contains(s, "float") || strings.Contains(s, "binary_double") {
		return "float"
	}
	if strings.Contains(s, "int") || strings.Contains(s, "number") {
		return "int"
	}
	if strings.Contains(s, "date") || strings.Contains(s, "time") {
		return "datetime"
	}
	if strings.Contains(s, "blob") || strings.Contains(s, "raw") {
		return "blob"
	}
	return s
}
