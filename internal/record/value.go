// Package record holds the dynamic value model shared by the table access
// layer: a closed Value type, the ordered FieldSet payload and immutable Rows.
package record

import (
	"bytes"
	"database/sql/driver"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind tags the dynamic type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
	KindBinary
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindBinary:
		return "binary"
	case KindTime:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Value is one cell. Only the field matching kind is meaningful.
// The zero Value is NULL.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
	bin  []byte
	t    time.Time
}

func Null() Value { return Value{} }
func Int(v int64) Value { return Value{kind: KindInt, i: v} }
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }
func Text(v string) Value { return Value{kind: KindText, s: v} }
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }
func Timestamp(v time.Time) Value { return Value{kind: KindTime, t: v} }

// Binary copies v so later writes by the caller do not leak into the value.
func Binary(v []byte) Value {
	if v == nil {
		return Null()
	}
	return Value{kind: KindBinary, bin: bytes.Clone(v)}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int64 returns the integer payload; ok is false for other kinds.
func (v Value) Int64() (int64, bool) { return v.i, v.kind == KindInt }

func (v Value) Float64() (float64, bool) { return v.f, v.kind == KindFloat }

func (v Value) Text() (string, bool) { return v.s, v.kind == KindText }

func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) Bytes() ([]byte, bool) { return bytes.Clone(v.bin), v.kind == KindBinary }

func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindTime }

// String renders the value as plain text. Binary is base64, timestamps are
// RFC 3339 with nanoseconds, NULL is the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindBinary:
		return base64.StdEncoding.EncodeToString(v.bin)
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindText:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	case KindBinary:
		return bytes.Equal(v.bin, o.bin)
	case KindTime:
		return v.t.Equal(o.t)
	}
	return false
}

// Value implements driver.Valuer so a Value can be bound directly as a
// statement argument. NULL binds as SQL NULL.
func (v Value) Value() (driver.Value, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindInt:
		return v.i, nil
	case KindFloat:
		return v.f, nil
	case KindText:
		return v.s, nil
	case KindBool:
		return v.b, nil
	case KindBinary:
		return v.bin, nil
	case KindTime:
		return v.t, nil
	}
	return nil, fmt.Errorf("record: unsupported value kind %d", v.kind)
}

// Of converts a Go value into a Value. It accepts the types produced by
// database/sql drivers plus the common sized integer and float types.
func Of(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case int64:
		return Int(t), nil
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Value{}, fmt.Errorf("record: uint64 %d overflows int64", t)
		}
		return Int(int64(t)), nil
	case float64:
		return Float(t), nil
	case float32:
		return Float(float64(t)), nil
	case string:
		return Text(t), nil
	case bool:
		return Bool(t), nil
	case []byte:
		return Binary(t), nil
	case time.Time:
		return Timestamp(t), nil
	case driver.Valuer:
		dv, err := t.Value()
		if err != nil {
			return Value{}, fmt.Errorf("record: valuer: %w", err)
		}
		if _, loop := dv.(driver.Valuer); loop {
			return Value{}, fmt.Errorf("record: valuer %T returned another valuer", x)
		}
		return Of(dv)
	default:
		return Value{}, fmt.Errorf("record: unsupported type %T", x)
	}
}
