package record

import "strings"

// Field is one column/value pair.
type Field struct {
	Name  string
	Value Value
}

// FieldSet is the flat payload of an insert or update. Slice order is the
// column order of the generated statement.
type FieldSet []Field

// Fields builds a FieldSet from alternating name/value arguments, converting
// each value with Of. It panics on malformed input and is meant for literals
// in code and tests.
func Fields(pairs ...any) FieldSet {
	if len(pairs)%2 != 0 {
		panic("record.Fields: odd number of arguments")
	}
	fs := make(FieldSet, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic("record.Fields: column name must be a string")
		}
		v, err := Of(pairs[i+1])
		if err != nil {
			panic(err)
		}
		fs = append(fs, Field{Name: name, Value: v})
	}
	return fs
}

// Clone returns a copy that can be modified without touching fs.
func (fs FieldSet) Clone() FieldSet {
	if fs == nil {
		return nil
	}
	out := make(FieldSet, len(fs))
	copy(out, fs)
	return out
}

// Get returns the value stored under name. Lookup is exact.
func (fs FieldSet) Get(name string) (Value, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Names returns the column names in order.
func (fs FieldSet) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// Row is one result row. It keeps the column order reported by the backend
// and cannot be modified once built.
type Row struct {
	fields []Field
	index  map[string]int
}

// NewRow builds a Row from parallel column and value slices.
func NewRow(columns []string, values []Value) Row {
	r := Row{
		fields: make([]Field, len(columns)),
		index:  make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		r.fields[i] = Field{Name: c, Value: values[i]}
		if _, dup := r.index[c]; !dup {
			r.index[c] = i
		}
	}
	return r
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.fields) }

// Columns returns the column names in backend order.
func (r Row) Columns() []string {
	cols := make([]string, len(r.fields))
	for i, f := range r.fields {
		cols[i] = f.Name
	}
	return cols
}

// Get returns the value of column name. When the exact name is missing a
// case-insensitive match is tried, since some backends fold identifiers.
func (r Row) Get(name string) (Value, bool) {
	if i, ok := r.index[name]; ok {
		return r.fields[i].Value, true
	}
	for _, f := range r.fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Fields returns a copy of the row as a FieldSet.
func (r Row) Fields() FieldSet {
	return FieldSet(r.fields).Clone()
}
