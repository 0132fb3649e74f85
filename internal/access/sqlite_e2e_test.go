package access

import (
	"context"
	"path/filepath"
	"testing"

	"db-gate/internal/conn"
	"db-gate/internal/dberr"
	"db-gate/internal/dialect"
	"db-gate/internal/hashing"
	"db-gate/internal/query"
	"db-gate/internal/record"
	"db-gate/internal/transform"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func newSQLiteEngine(t *testing.T) (*Engine, *hashing.Bcrypt) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gate.db")

	db, err := sqlx.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE orders (id TEXT PRIMARY KEY, status TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO orders (id, status) VALUES ('8', 'new')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	d, err := dialect.GetDialect("sqlite")
	require.NoError(t, err)
	h, err := hashing.NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	c := &conn.DSNConnector{Driver: "sqlite", Provider: conn.StaticProvider(path)}
	return New(d, c, Options{Hasher: h}), h
}

func TestSQLite_CreateThenReadByKey(t *testing.T) {
	e, h := newSQLiteEngine(t)
	ctx := context.Background()

	ok, err := e.Create(ctx, users,
		record.Fields("name", "Ana", "email", "a@x.com", "password", "secret"),
		transform.ParseDirective("password"))
	require.NoError(t, err)
	assert.True(t, ok)

	rows, err := e.ReadByKey(ctx, users, query.Key{Column: "email", Value: record.Text("a@x.com")})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	name, _ := rows[0].Get("name")
	assert.Equal(t, record.Text("Ana"), name)
	id, _ := rows[0].Get("id")
	assert.Equal(t, record.Int(1), id)

	stored, _ := rows[0].Get("password")
	assert.NotEqual(t, "secret", stored.String())
	assert.NoError(t, h.Compare(stored.String(), "secret"))

	hash, found, err := e.CredentialHash(ctx, users, "email", "password", record.Text("a@x.com"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stored.String(), hash)

	_, found, err = e.CredentialHash(ctx, users, "email", "password", record.Text("nobody@x.com"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLite_ReadAllLimit(t *testing.T) {
	e, _ := newSQLiteEngine(t)
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := e.Create(ctx, users, record.Fields("name", "n", "email", email), nil)
		require.NoError(t, err)
	}

	rows, err := e.ReadAll(ctx, users, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = e.ReadAll(ctx, users, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestSQLite_UpdateAndDelete(t *testing.T) {
	e, _ := newSQLiteEngine(t)
	ctx := context.Background()
	orders := query.Table{Name: "orders"}
	shipped := record.Fields("status", "shipped")

	n, err := e.Update(ctx, orders, query.Key{Column: "id", Value: record.Text("7")}, shipped, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = e.Update(ctx, orders, query.Key{Column: "id", Value: record.Text("8")}, shipped, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := e.ReadByKey(ctx, orders, query.Key{Column: "id", Value: record.Text("8")})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	status, _ := rows[0].Get("status")
	assert.Equal(t, record.Text("shipped"), status)

	n, err = e.Delete(ctx, orders, query.Key{Column: "id", Value: record.Text("7")})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = e.Delete(ctx, orders, query.Key{Column: "id", Value: record.Text("8")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSQLite_ErrorTaxonomy(t *testing.T) {
	e, _ := newSQLiteEngine(t)
	ctx := context.Background()

	_, err := e.Create(ctx, users, record.Fields("name", "Ana", "email", "a@x.com"), nil)
	require.NoError(t, err)

	_, err = e.Create(ctx, users, record.Fields("name", "Ann", "email", "a@x.com"), nil)
	assert.ErrorIs(t, err, dberr.ErrDuplicateKey)

	_, err = e.ReadAll(ctx, query.Table{Name: "missing"}, 5)
	assert.ErrorIs(t, err, dberr.ErrUnknownTable)
	assert.ErrorContains(t, err, "read-all main.missing")

	_, err = e.Update(ctx, users, query.Key{Column: "email", Value: record.Text("a@x.com")}, record.Fields("nickname", "x"), nil)
	assert.ErrorIs(t, err, dberr.ErrUnknownColumn)

	_, err = e.Create(ctx, users, record.FieldSet{}, nil)
	assert.ErrorIs(t, err, dberr.ErrValidation)
}
