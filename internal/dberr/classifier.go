package dberr

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"maps"
	"net"
	"slices"
	"strings"
)

// Native is the backend-specific signal carried by a driver error.
type Native struct {
	Code    string
	Message string
}

// ExtractFunc pulls the native code out of a driver error. It returns false
// when err does not come from the dialect's driver.
type ExtractFunc func(err error) (Native, bool)

// Pattern maps a lower-case message fragment to a Kind. Patterns are only
// consulted when the native code itself is not in the exact or prefix table.
type Pattern struct {
	Contains string
	Kind     Kind
}

// CodeTable is the per-dialect code vocabulary.
type CodeTable struct {
	Exact    map[string]Kind
	Prefix   map[string]Kind // e.g. SQLSTATE class "08"
	Patterns []Pattern
}

// Classifier maps the native errors of one dialect onto the taxonomy.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	dialect  string
	extract  ExtractFunc
	exact    map[string]Kind
	prefixes []string
	prefix   map[string]Kind
	patterns []Pattern
}

// NewClassifier copies the tables so later changes by the caller have no
// effect on the classifier.
func NewClassifier(dialect string, extract ExtractFunc, table CodeTable) *Classifier {
	c := &Classifier{
		dialect:  dialect,
		extract:  extract,
		exact:    maps.Clone(table.Exact),
		prefix:   maps.Clone(table.Prefix),
		patterns: slices.Clone(table.Patterns),
	}
	if c.exact == nil {
		c.exact = map[string]Kind{}
	}
	if c.prefix == nil {
		c.prefix = map[string]Kind{}
	}
	for p := range c.prefix {
		c.prefixes = append(c.prefixes, p)
	}
	// longest prefix wins
	slices.SortFunc(c.prefixes, func(a, b string) int { return len(b) - len(a) })
	for i := range c.patterns {
		c.patterns[i].Contains = strings.ToLower(c.patterns[i].Contains)
	}
	return c
}

// Dialect names the dialect this classifier belongs to.
func (c *Classifier) Dialect() string { return c.dialect }

// Lookup returns the Kind registered for a native code and message.
// Unmapped codes yield KindBackend.
func (c *Classifier) Lookup(n Native) Kind {
	if k, ok := c.exact[n.Code]; ok {
		return k
	}
	for _, p := range c.prefixes {
		if strings.HasPrefix(n.Code, p) {
			return c.prefix[p]
		}
	}
	if k, ok := c.match(n.Message); ok {
		return k
	}
	return KindBackend
}

func (c *Classifier) match(msg string) (Kind, bool) {
	if len(c.patterns) == 0 || msg == "" {
		return 0, false
	}
	lower := strings.ToLower(msg)
	for _, p := range c.patterns {
		if strings.Contains(lower, p.Contains) {
			return p.Kind, true
		}
	}
	return 0, false
}

// Classify converts err into a taxonomy error for operation op on table.
// Errors that already are taxonomy errors pass through untouched. Nothing is
// dropped: the native error stays reachable through Unwrap and unmapped codes
// keep their code and message verbatim.
func (c *Classifier) Classify(op, table string, err error) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}

	if n, ok := c.extract(err); ok {
		msg := n.Message
		if msg == "" {
			msg = err.Error()
		}
		return &Error{Kind: c.Lookup(n), Op: op, Table: table, Code: n.Code, Message: msg, Err: err}
	}

	kind := KindBackend
	if IsConnectionFailure(err) {
		kind = KindConnection
	} else if k, ok := c.match(err.Error()); ok {
		kind = k
	}
	return &Error{Kind: kind, Op: op, Table: table, Message: err.Error(), Err: err}
}

// IsConnectionFailure reports the driver-independent signals of a broken or
// unreachable connection.
func IsConnectionFailure(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
