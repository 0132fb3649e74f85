package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"db-gate/internal/dberr"
	"db-gate/internal/query"
	"db-gate/internal/record"
	"db-gate/internal/schema"
	"db-gate/internal/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersTable() *schema.Table {
	return &schema.Table{
		Ref: query.Ref{Schema: "main", Name: "users"},
		Columns: []*schema.Column{
			{Name: "id", DataType: "int", IsAutoInc: true},
			{Name: "email", DataType: "varchar", Length: 40, Meaning: "email"},
			{Name: "code", DataType: "char", Length: 3},
			{Name: "age", DataType: "int", Length: 2},
			{Name: "active", DataType: "boolean"},
			{Name: "created", DataType: "datetime", Meaning: "date"},
			{Name: "score", DataType: "double"},
			{Name: "blob", DataType: "blob"},
			{Name: "geom", DataType: "geometry", IsNullable: true},
		},
	}
}

func TestGenerator_Row(t *testing.T) {
	g := NewGenerator(42)
	row := g.Row(usersTable())

	assert.Equal(t, []string{"email", "code", "age", "active", "created", "score", "blob", "geom"}, row.Names())

	email, _ := row.Get("email")
	s, ok := email.Text()
	require.True(t, ok)
	assert.Contains(t, s, "@")
	assert.LessOrEqual(t, len([]rune(s)), 40)

	code, _ := row.Get("code")
	s, _ = code.Text()
	assert.LessOrEqual(t, len([]rune(s)), 3)

	age, _ := row.Get("age")
	n, ok := age.Int64()
	require.True(t, ok)
	assert.True(t, n >= 1 && n <= 99, "age %d", n)

	active, _ := row.Get("active")
	assert.Equal(t, record.KindBool, active.Kind())
	created, _ := row.Get("created")
	assert.Equal(t, record.KindTime, created.Kind())
	score, _ := row.Get("score")
	assert.Equal(t, record.KindFloat, score.Kind())
	blob, _ := row.Get("blob")
	assert.Equal(t, record.KindBinary, blob.Kind())
	geom, _ := row.Get("geom")
	assert.True(t, geom.IsNull())
}

func TestGenerator_Deterministic(t *testing.T) {
	a := NewGenerator(7).Row(usersTable())
	b := NewGenerator(7).Row(usersTable())
	ea, _ := a.Get("email")
	eb, _ := b.Get("email")
	assert.True(t, ea.Equal(eb))
}

func TestIntCeiling(t *testing.T) {
	assert.Equal(t, 127, intCeiling("tinyint", 0))
	assert.Equal(t, 999, intCeiling("int", 3))
	assert.Equal(t, 50000, intCeiling("bigint", 0))
}

func TestMaxRows(t *testing.T) {
	tbl := &schema.Table{Columns: []*schema.Column{{Name: "id", DataType: "tinyint", IsAutoInc: true}}}
	assert.Equal(t, 255, MaxRows(tbl, 1000))
	assert.Equal(t, 10, MaxRows(tbl, 10))
	assert.Equal(t, 1000, MaxRows(usersTable(), 1000))
}

type fakeCreator struct {
	errs      []error // consumed one per call; nil entries succeed
	calls     int
	directive transform.Directive
	table     query.Table
}

func (f *fakeCreator) Create(_ context.Context, t query.Table, fs record.FieldSet, d transform.Directive) (bool, error) {
	f.table, f.directive = t, d
	var err error
	if f.calls < len(f.errs) {
		err = f.errs[f.calls]
	}
	f.calls++
	if len(fs) == 0 {
		return false, errors.New("empty row")
	}
	return err == nil, err
}

func TestFill(t *testing.T) {
	dup := &dberr.Error{Kind: dberr.KindDuplicateKey}
	c := &fakeCreator{errs: []error{nil, dup, nil, dup, nil}}
	progress := 0

	res := Fill(context.Background(), c, usersTable(), 3, transform.ParseDirective("password"), NewGenerator(1), func() { progress++ })

	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 5, res.Attempts)
	assert.Equal(t, 3, progress)
	assert.Equal(t, "main.users", res.Table)
	assert.Equal(t, query.Table{Schema: "main", Name: "users"}, c.table)
	assert.Equal(t, transform.Directive{"password"}, c.directive)
}

func TestFill_StopsOnNonRetryableError(t *testing.T) {
	missing := &dberr.Error{Kind: dberr.KindUnknownTable, Message: "no such table"}
	c := &fakeCreator{errs: []error{nil, missing}}

	res := Fill(context.Background(), c, usersTable(), 5, nil, NewGenerator(1), nil)

	assert.Equal(t, StatusPartial, res.Status)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 2, c.calls)
	assert.ErrorIs(t, res.Err, dberr.ErrUnknownTable)
}

func TestFill_GivesUpAfterRetries(t *testing.T) {
	dup := &dberr.Error{Kind: dberr.KindDuplicateKey}
	errs := make([]error, 100)
	for i := range errs {
		errs[i] = dup
	}
	c := &fakeCreator{errs: errs}

	res := Fill(context.Background(), c, usersTable(), 2, nil, NewGenerator(1), nil)

	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 20, res.Attempts)
	assert.True(t, strings.Contains(res.Err.Error(), "DuplicateKeyViolation"))
}

func TestFill_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &fakeCreator{}

	res := Fill(ctx, c, usersTable(), 2, nil, NewGenerator(1), nil)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Zero(t, c.calls)
	assert.ErrorIs(t, res.Err, context.Canceled)
}
