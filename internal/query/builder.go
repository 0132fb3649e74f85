package query

import (
	"fmt"
	"strconv"
	"strings"

	"db-gate/internal/dberr"
	"db-gate/internal/dialect"
	"db-gate/internal/record"
)

// Operation names used in statements and taxonomy errors.
const (
	OpReadAll        = "read-all"
	OpReadByKey      = "read-by-key"
	OpCreate         = "create"
	OpUpdate         = "update"
	OpDelete         = "delete"
	OpCredentialHash = "credential-hash lookup"
)

// DefaultLimit applies when read-all gets no positive limit.
const DefaultLimit = 100

// Key is a single-column equality predicate.
type Key struct {
	Column string
	Value  record.Value
}

// Binding is one bound parameter. Name is unique within its statement.
type Binding struct {
	Name   string
	Column string // empty for the row limit
	Value  record.Value
}

// Statement is the SQL text and its parameters in placeholder order.
type Statement struct {
	Op       string
	SQL      string
	Bindings []Binding
}

// Args returns the bound values ready for database/sql.
func (s Statement) Args() []any {
	args := make([]any, len(s.Bindings))
	for i, b := range s.Bindings {
		args[i] = b.Value
	}
	return args
}

// Builder renders statements for one dialect.
type Builder struct {
	d dialect.Dialect
}

func NewBuilder(d dialect.Dialect) *Builder {
	return &Builder{d: d}
}

func (b *Builder) Dialect() dialect.Dialect { return b.d }

// params hands out placeholders in order and records the matching bindings.
type params struct {
	d        dialect.Dialect
	bindings []Binding
}

func (p *params) add(column string, v record.Value) string {
	i := len(p.bindings)
	p.bindings = append(p.bindings, Binding{Name: "p" + strconv.Itoa(i+1), Column: column, Value: v})
	return p.d.Placeholder(i)
}

func (b *Builder) table(ref Ref) string {
	if ref.Schema == "" {
		return b.d.QuoteIdentifier(ref.Name)
	}
	return b.d.QuoteIdentifier(ref.Schema) + "." + b.d.QuoteIdentifier(ref.Name)
}

func (b *Builder) key(op string, k Key) (string, error) {
	col, err := Column(op, "key column", k.Column)
	if err != nil {
		return "", err
	}
	if isEmpty(k.Value) {
		return "", dberr.Validation(op, "key value", "must not be empty")
	}
	return col, nil
}

func isEmpty(v record.Value) bool {
	if v.IsNull() {
		return true
	}
	s, ok := v.Text()
	return ok && strings.TrimSpace(s) == ""
}

// fields validates a non-empty field set with unique, non-blank names and
// returns the trimmed names in order.
func (b *Builder) fields(op string, fs record.FieldSet) ([]string, error) {
	if len(fs) == 0 {
		return nil, dberr.Validation(op, "fields", "must not be empty")
	}
	names := make([]string, len(fs))
	seen := make(map[string]struct{}, len(fs))
	for i, f := range fs {
		name, err := Column(op, "field name", f.Name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, dberr.Validation(op, "field "+strconv.Quote(name), "appears more than once")
		}
		seen[name] = struct{}{}
		names[i] = name
	}
	return names, nil
}

// ReadAll selects every column of up to limit rows.
func (b *Builder) ReadAll(ref Ref, limit int) (Statement, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	p := &params{d: b.d}
	var sql string
	switch b.d.LimitStyle() {
	case dialect.LimitTop:
		sql = fmt.Sprintf("SELECT TOP (%d) * FROM %s", limit, b.table(ref))
	case dialect.LimitFetchFirst:
		sql = fmt.Sprintf("SELECT * FROM %s FETCH FIRST %s ROWS ONLY", b.table(ref), p.add("", record.Int(int64(limit))))
	default:
		sql = fmt.Sprintf("SELECT * FROM %s LIMIT %s", b.table(ref), p.add("", record.Int(int64(limit))))
	}
	return Statement{Op: OpReadAll, SQL: sql, Bindings: p.bindings}, nil
}

// ReadByKey selects all rows whose key column equals the key value.
func (b *Builder) ReadByKey(ref Ref, k Key) (Statement, error) {
	col, err := b.key(OpReadByKey, k)
	if err != nil {
		return Statement{}, err
	}
	p := &params{d: b.d}
	sql := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s", b.table(ref), b.d.QuoteIdentifier(col), p.add(col, k.Value))
	return Statement{Op: OpReadByKey, SQL: sql, Bindings: p.bindings}, nil
}

// Insert builds a single-row INSERT in field set order.
func (b *Builder) Insert(ref Ref, fs record.FieldSet) (Statement, error) {
	names, err := b.fields(OpCreate, fs)
	if err != nil {
		return Statement{}, err
	}
	p := &params{d: b.d}
	cols := make([]string, len(names))
	for i, name := range names {
		cols[i] = b.d.QuoteIdentifier(name)
		p.add(name, fs[i].Value)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		b.table(ref),
		strings.Join(cols, ", "),
		dialect.GeneratePlaceholders(0, len(names), b.d.Placeholder))
	return Statement{Op: OpCreate, SQL: sql, Bindings: p.bindings}, nil
}

// Update sets every field on the rows matching the key.
func (b *Builder) Update(ref Ref, k Key, fs record.FieldSet) (Statement, error) {
	col, err := b.key(OpUpdate, k)
	if err != nil {
		return Statement{}, err
	}
	names, err := b.fields(OpUpdate, fs)
	if err != nil {
		return Statement{}, err
	}
	p := &params{d: b.d}
	sets := make([]string, len(names))
	for i, name := range names {
		sets[i] = b.d.QuoteIdentifier(name) + " = " + p.add(name, fs[i].Value)
	}
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		b.table(ref),
		strings.Join(sets, ", "),
		b.d.QuoteIdentifier(col),
		p.add(col, k.Value))
	return Statement{Op: OpUpdate, SQL: sql, Bindings: p.bindings}, nil
}

// Delete removes the rows matching the key.
func (b *Builder) Delete(ref Ref, k Key) (Statement, error) {
	col, err := b.key(OpDelete, k)
	if err != nil {
		return Statement{}, err
	}
	p := &params{d: b.d}
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", b.table(ref), b.d.QuoteIdentifier(col), p.add(col, k.Value))
	return Statement{Op: OpDelete, SQL: sql, Bindings: p.bindings}, nil
}

// CredentialHash selects the password column of the row whose user column
// equals user.
func (b *Builder) CredentialHash(ref Ref, userColumn, passwordColumn string, user record.Value) (Statement, error) {
	pass, err := Column(OpCredentialHash, "password column", passwordColumn)
	if err != nil {
		return Statement{}, err
	}
	userCol, err := b.key(OpCredentialHash, Key{Column: userColumn, Value: user})
	if err != nil {
		return Statement{}, err
	}
	p := &params{d: b.d}
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		b.d.QuoteIdentifier(pass),
		b.table(ref),
		b.d.QuoteIdentifier(userCol),
		p.add(userCol, user))
	return Statement{Op: OpCredentialHash, SQL: sql, Bindings: p.bindings}, nil
}
