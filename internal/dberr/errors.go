// Package dberr defines the backend-agnostic error taxonomy returned by the
// table access layer and the engine that maps native driver errors onto it.
package dberr

import (
	"errors"
	"fmt"
)

// Kind is the stable, dialect-independent error category.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnknownTable
	KindUnknownColumn
	KindDuplicateKey
	KindForeignKey
	KindSyntax
	KindConnection
	KindBackend
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindUnknownTable:
		return "UnknownTable"
	case KindUnknownColumn:
		return "UnknownColumn"
	case KindDuplicateKey:
		return "DuplicateKeyViolation"
	case KindForeignKey:
		return "ForeignKeyViolation"
	case KindSyntax:
		return "SyntaxError"
	case KindConnection:
		return "ConnectionError"
	case KindBackend:
		return "BackendError"
	case KindUnexpected:
		return "UnexpectedError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrUnknownTable  = &Error{Kind: KindUnknownTable}
	ErrUnknownColumn = &Error{Kind: KindUnknownColumn}
	ErrDuplicateKey  = &Error{Kind: KindDuplicateKey}
	ErrForeignKey    = &Error{Kind: KindForeignKey}
	ErrSyntax        = &Error{Kind: KindSyntax}
	ErrConnection    = &Error{Kind: KindConnection}
	ErrBackend       = &Error{Kind: KindBackend}
	ErrUnexpected    = &Error{Kind: KindUnexpected}
)

// Error is the taxonomy error. Err keeps the native error, if any.
type Error struct {
	Kind    Kind
	Op      string // operation, e.g. "read-all"
	Table   string // table reference as given to the operation
	Code    string // native backend code, empty when not from the backend
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	prefix := e.Op
	if e.Table != "" {
		if prefix != "" {
			prefix += " "
		}
		prefix += e.Table
	}
	var s string
	if prefix != "" {
		s = prefix + ": "
	}
	s += e.Kind.String()
	if e.Code != "" {
		s += " [" + e.Code + "]"
	}
	if msg != "" {
		s += ": " + msg
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, which makes the package sentinels
// usable with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Validation reports a caller argument that violates a precondition.
func Validation(op, param, msg string) *Error {
	return &Error{
		Kind:    KindValidation,
		Op:      op,
		Message: fmt.Sprintf("%s %s", param, msg),
	}
}

// Unexpected wraps a failure that did not come from the backend driver.
func Unexpected(op, table string, err error) *Error {
	return &Error{Kind: KindUnexpected, Op: op, Table: table, Err: err}
}

// KindOf returns the Kind of err, or 0 when err is not a taxonomy error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
