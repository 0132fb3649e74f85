// Package access is the table access port: six generic operations against a
// caller-named table, polymorphic over the SQL dialect.
//
// Every operation validates its identifiers, builds one parameterized
// statement, acquires one connection, executes, and releases the connection
// on every exit path. Backend failures come back as *dberr.Error.
package access

import (
	"context"
	"fmt"

	"db-gate/internal/conn"
	"db-gate/internal/dberr"
	"db-gate/internal/dialect"
	"db-gate/internal/query"
	"db-gate/internal/record"
	"db-gate/internal/transform"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// TableAccess is the capability set shared by every dialect.
type TableAccess interface {
	ReadAll(ctx context.Context, t query.Table, limit int) ([]record.Row, error)
	ReadByKey(ctx context.Context, t query.Table, key query.Key) ([]record.Row, error)
	Create(ctx context.Context, t query.Table, fields record.FieldSet, encrypted transform.Directive) (bool, error)
	Update(ctx context.Context, t query.Table, key query.Key, fields record.FieldSet, encrypted transform.Directive) (int64, error)
	Delete(ctx context.Context, t query.Table, key query.Key) (int64, error)
	CredentialHash(ctx context.Context, t query.Table, userColumn, passwordColumn string, user record.Value) (string, bool, error)
}

type Options struct {
	// Hasher backs the encrypted-field directive. Without one, any write
	// naming a present, non-null encrypted field fails.
	Hasher transform.Hasher
	// DefaultLimit replaces query.DefaultLimit for read-all.
	DefaultLimit int
	Logger       *zap.Logger
}

// Engine implements TableAccess for one dialect and one connector.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	dialect   dialect.Dialect
	builder   *query.Builder
	connector conn.Connector
	hasher    transform.Hasher
	limit     int
	log       *zap.Logger
}

var _ TableAccess = (*Engine)(nil)

func New(d dialect.Dialect, c conn.Connector, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		dialect:   d,
		builder:   query.NewBuilder(d),
		connector: c,
		hasher:    opts.Hasher,
		limit:     opts.DefaultLimit,
		log:       log.With(zap.String("dialect", d.Name())),
	}
}

func (e *Engine) Dialect() dialect.Dialect { return e.dialect }

func (e *Engine) ReadAll(ctx context.Context, t query.Table, limit int) ([]record.Row, error) {
	ref, err := query.Normalize(e.dialect, query.OpReadAll, t)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = e.limit
	}
	st, err := e.builder.ReadAll(ref, limit)
	if err != nil {
		return nil, withTable(err, ref)
	}
	return e.queryRows(ctx, ref, st)
}

func (e *Engine) ReadByKey(ctx context.Context, t query.Table, key query.Key) ([]record.Row, error) {
	ref, err := query.Normalize(e.dialect, query.OpReadByKey, t)
	if err != nil {
		return nil, err
	}
	st, err := e.builder.ReadByKey(ref, key)
	if err != nil {
		return nil, withTable(err, ref)
	}
	return e.queryRows(ctx, ref, st)
}

// Create inserts one row. The result reports whether the backend counted at
// least one inserted row.
func (e *Engine) Create(ctx context.Context, t query.Table, fields record.FieldSet, encrypted transform.Directive) (bool, error) {
	ref, err := query.Normalize(e.dialect, query.OpCreate, t)
	if err != nil {
		return false, err
	}
	st, err := e.build(query.OpCreate, ref, fields, encrypted, func(fs record.FieldSet) (query.Statement, error) {
		return e.builder.Insert(ref, fs)
	})
	if err != nil {
		return false, err
	}
	n, err := e.exec(ctx, ref, st)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Update returns the number of rows changed. Zero matches is not an error.
func (e *Engine) Update(ctx context.Context, t query.Table, key query.Key, fields record.FieldSet, encrypted transform.Directive) (int64, error) {
	ref, err := query.Normalize(e.dialect, query.OpUpdate, t)
	if err != nil {
		return 0, err
	}
	st, err := e.build(query.OpUpdate, ref, fields, encrypted, func(fs record.FieldSet) (query.Statement, error) {
		return e.builder.Update(ref, key, fs)
	})
	if err != nil {
		return 0, err
	}
	return e.exec(ctx, ref, st)
}

// Delete returns the number of rows removed. Zero matches is not an error.
func (e *Engine) Delete(ctx context.Context, t query.Table, key query.Key) (int64, error) {
	ref, err := query.Normalize(e.dialect, query.OpDelete, t)
	if err != nil {
		return 0, err
	}
	st, err := e.builder.Delete(ref, key)
	if err != nil {
		return 0, withTable(err, ref)
	}
	return e.exec(ctx, ref, st)
}

// CredentialHash returns the stored password hash for user. ok is false when
// no row matches or the stored value is NULL. When several rows match, the
// first one returned by the backend wins.
func (e *Engine) CredentialHash(ctx context.Context, t query.Table, userColumn, passwordColumn string, user record.Value) (hash string, ok bool, err error) {
	ref, err := query.Normalize(e.dialect, query.OpCredentialHash, t)
	if err != nil {
		return "", false, err
	}
	st, err := e.builder.CredentialHash(ref, userColumn, passwordColumn, user)
	if err != nil {
		return "", false, withTable(err, ref)
	}
	err = e.query(ctx, ref, st, func(rows *sqlx.Rows) error {
		if !rows.Next() {
			return rows.Err()
		}
		vals, err := rows.SliceScan()
		if err != nil {
			return err
		}
		if len(vals) == 0 || vals[0] == nil {
			return nil
		}
		v, err := scalarText(vals[0])
		if err != nil {
			return dberr.Unexpected(st.Op, ref.String(), err)
		}
		hash, ok = v, true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return hash, ok, nil
}

// build validates the request on the caller's fields before anything is
// hashed, then renders the statement again over the transformed fields.
func (e *Engine) build(op string, ref query.Ref, fields record.FieldSet, encrypted transform.Directive, render func(record.FieldSet) (query.Statement, error)) (query.Statement, error) {
	st, err := render(fields)
	if err != nil {
		return query.Statement{}, withTable(err, ref)
	}
	if len(encrypted) == 0 {
		return st, nil
	}
	payload, err := transform.Apply(e.hasher, encrypted, fields)
	if err != nil {
		return query.Statement{}, dberr.Unexpected(op, ref.String(), err)
	}
	st, err = render(payload)
	if err != nil {
		return query.Statement{}, withTable(err, ref)
	}
	return st, nil
}

// withTable fills in the table of a validation error raised after
// normalization.
func withTable(err error, ref query.Ref) error {
	if te, ok := err.(*dberr.Error); ok && te.Table == "" {
		cp := *te
		cp.Table = ref.String()
		return &cp
	}
	return err
}

func (e *Engine) queryRows(ctx context.Context, ref query.Ref, st query.Statement) ([]record.Row, error) {
	out := []record.Row{}
	err := e.query(ctx, ref, st, func(rows *sqlx.Rows) error {
		m, err := newRowMapper(rows)
		if err != nil {
			return err
		}
		for rows.Next() {
			vals, err := rows.SliceScan()
			if err != nil {
				return err
			}
			row, err := m.mapRow(vals)
			if err != nil {
				return dberr.Unexpected(st.Op, ref.String(), err)
			}
			out = append(out, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// query runs st and hands the open result set to fn. Rows and connection are
// closed before query returns.
func (e *Engine) query(ctx context.Context, ref query.Ref, st query.Statement, fn func(*sqlx.Rows) error) (err error) {
	c, err := e.acquire(ctx, ref, st)
	if err != nil {
		return err
	}
	defer e.release(c, ref, st)
	defer e.recoverPanic(ref, st, &err)

	e.logStatement(ref, st)
	rows, err := c.QueryxContext(ctx, st.SQL, st.Args()...)
	if err != nil {
		return e.fail(ref, st, err)
	}
	defer rows.Close()

	if err := fn(rows); err != nil {
		return e.fail(ref, st, err)
	}
	return nil
}

func (e *Engine) exec(ctx context.Context, ref query.Ref, st query.Statement) (n int64, err error) {
	c, err := e.acquire(ctx, ref, st)
	if err != nil {
		return 0, err
	}
	defer e.release(c, ref, st)
	defer e.recoverPanic(ref, st, &err)

	e.logStatement(ref, st)
	res, err := c.ExecContext(ctx, st.SQL, st.Args()...)
	if err != nil {
		return 0, e.fail(ref, st, err)
	}
	n, err = res.RowsAffected()
	if err != nil {
		return 0, e.fail(ref, st, fmt.Errorf("rows affected: %w", err))
	}
	return n, nil
}

// acquire reports every failure to obtain a connection as ConnectionError
// unless the dialect maps the native code to something more specific.
func (e *Engine) acquire(ctx context.Context, ref query.Ref, st query.Statement) (conn.Conn, error) {
	c, err := e.connector.Connect(ctx)
	if err == nil {
		return c, nil
	}
	te := e.dialect.Classifier().Classify(st.Op, ref.String(), err)
	if te.Kind == dberr.KindBackend {
		cp := *te
		cp.Kind = dberr.KindConnection
		te = &cp
	}
	e.log.Warn("connection failed",
		zap.String("op", st.Op),
		zap.String("table", ref.String()),
		zap.Stringer("kind", te.Kind),
		zap.Error(err))
	return nil, te
}

func (e *Engine) release(c conn.Conn, ref query.Ref, st query.Statement) {
	if err := c.Close(); err != nil {
		e.log.Warn("closing connection",
			zap.String("op", st.Op),
			zap.String("table", ref.String()),
			zap.Error(err))
	}
}

func (e *Engine) recoverPanic(ref query.Ref, st query.Statement, errp *error) {
	if r := recover(); r != nil {
		e.log.Error("panic during statement",
			zap.String("op", st.Op),
			zap.String("table", ref.String()),
			zap.Any("panic", r))
		*errp = dberr.Unexpected(st.Op, ref.String(), fmt.Errorf("panic: %v", r))
	}
}

func (e *Engine) fail(ref query.Ref, st query.Statement, err error) error {
	te := e.dialect.Classifier().Classify(st.Op, ref.String(), err)
	e.log.Warn("statement failed",
		zap.String("op", st.Op),
		zap.String("table", ref.String()),
		zap.Stringer("kind", te.Kind),
		zap.String("code", te.Code),
		zap.Error(err))
	return te
}

// logStatement never logs bound values; they may hold credentials.
func (e *Engine) logStatement(ref query.Ref, st query.Statement) {
	e.log.Debug("executing statement",
		zap.String("op", st.Op),
		zap.String("table", ref.String()),
		zap.String("sql", st.SQL),
		zap.Int("bindings", len(st.Bindings)))
}
