// Package conn acquires backend connections for the access engine.
package conn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Provider returns the current connection string for a backend. It is
// consulted on every acquisition, so a changed configuration takes effect on
// the next call.
type Provider interface {
	ConnectionString(ctx context.Context) (string, error)
}

// StaticProvider always returns the same connection string.
type StaticProvider string

func (s StaticProvider) ConnectionString(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", errors.New("empty connection string")
	}
	return string(s), nil
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) ConnectionString(ctx context.Context) (string, error) { return f(ctx) }

// Conn is the part of a connection the engine uses. *sqlx.Conn satisfies it.
// Close releases the connection and must be called exactly once.
type Conn interface {
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Close() error
}

// Connector hands out one connection per operation.
type Connector interface {
	Connect(ctx context.Context) (Conn, error)
}

// DSNConnector opens a fresh handle for every call and closes it again when
// the connection is released. Nothing is shared between calls.
type DSNConnector struct {
	Driver   string
	Provider Provider
}

func (c *DSNConnector) Connect(ctx context.Context) (Conn, error) {
	if c.Provider == nil {
		return nil, errors.New("no connection provider configured")
	}
	dsn, err := c.Provider.ConnectionString(ctx)
	if err != nil {
		return nil, fmt.Errorf("connection string: %w", err)
	}
	db, err := sqlx.Open(c.Driver, dsn)
	if err != nil {
		return nil, err
	}
	cx, err := db.Connx(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &ownedConn{Conn: cx, db: db}, nil
}

// ownedConn closes its private pool together with the connection.
type ownedConn struct {
	*sqlx.Conn
	db *sqlx.DB
}

func (o *ownedConn) Close() error {
	return errors.Join(o.Conn.Close(), o.db.Close())
}

// PoolConnector borrows connections from a shared pool. Close returns the
// connection to the pool instead of closing it.
type PoolConnector struct {
	DB *sqlx.DB
}

func (p *PoolConnector) Connect(ctx context.Context) (Conn, error) {
	if p.DB == nil {
		return nil, errors.New("no connection pool configured")
	}
	return p.DB.Connx(ctx)
}
