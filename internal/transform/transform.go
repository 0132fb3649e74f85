// Package transform applies one-way hashing to the fields named by an
// encrypted-field directive before they are written.
package transform

import (
	"fmt"
	"strings"

	"db-gate/internal/record"
)

// Hasher is the single capability the hook needs from a hashing collaborator.
type Hasher interface {
	Hash(plaintext string) (string, error)
}

// Directive is a parsed encrypted-field directive. A nil Directive is a no-op.
type Directive []string

// ParseDirective splits s on commas, trims each token and drops empty ones.
func ParseDirective(s string) Directive {
	var d Directive
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			d = append(d, tok)
		}
	}
	return d
}

// Matches reports whether the field name is named by the directive,
// ignoring case.
func (d Directive) Matches(name string) bool {
	name = strings.TrimSpace(name)
	for _, col := range d {
		if strings.EqualFold(col, name) {
			return true
		}
	}
	return false
}

func (d Directive) String() string { return strings.Join(d, ",") }

// Apply returns a copy of fields where every non-null value whose name the
// directive matches is replaced by the hash of its text form. fields itself
// is never modified.
func Apply(h Hasher, d Directive, fields record.FieldSet) (record.FieldSet, error) {
	out := fields.Clone()
	if len(d) == 0 {
		return out, nil
	}
	for i, f := range out {
		if f.Value.IsNull() || !d.Matches(f.Name) {
			continue
		}
		if h == nil {
			return nil, fmt.Errorf("field %q: no hasher configured", f.Name)
		}
		hashed, err := h.Hash(f.Value.String())
		if err != nil {
			return nil, fmt.Errorf("hash field %q: %w", f.Name, err)
		}
		out[i].Value = record.Text(hashed)
	}
	return out, nil
}
