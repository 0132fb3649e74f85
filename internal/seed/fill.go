package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"db-gate/internal/dberr"
	"db-gate/internal/query"
	"db-gate/internal/record"
	"db-gate/internal/schema"
	"db-gate/internal/transform"
)

// Creator is the single access operation Fill needs.
type Creator interface {
	Create(ctx context.Context, t query.Table, fields record.FieldSet, encrypted transform.Directive) (bool, error)
}

// Result summarizes one Fill run.
type Result struct {
	Table    string
	Target   int
	Inserted int
	Attempts int
	Status   string
	Err      error // last error seen, nil when every attempt succeeded
}

const (
	StatusOK      = "OK"
	StatusPartial = "PARTIAL"
	StatusFailed  = "FAILED"
)

// MaxRows caps count by the range of the table's auto-increment columns.
func MaxRows(t *schema.Table, count int) int {
	for _, c := range t.Columns {
		if !c.IsAutoInc {
			continue
		}
		var ceiling int
		switch {
		case strings.Contains(c.DataType, "tinyint"):
			ceiling = 255
		case strings.Contains(c.DataType, "smallint"):
			ceiling = 32767
		}
		if ceiling > 0 && ceiling < count {
			count = ceiling
		}
	}
	return count
}

// Fill inserts up to count generated rows into t, one Create per row.
// Duplicate-key rejections are retried with a fresh row, up to ten attempts
// per requested row. Any other taxonomy error stops the run, since the next
// row would fail the same way.
func Fill(ctx context.Context, c Creator, t *schema.Table, count int, encrypted transform.Directive, gen *Generator, onProgress func()) Result {
	target := MaxRows(t, count)
	res := Result{Table: t.Ref.String(), Target: target}
	table := query.Table{Schema: t.Ref.Schema, Name: t.Ref.Name}

	for res.Inserted < target && res.Attempts < target*10 {
		if err := ctx.Err(); err != nil {
			res.Err = err
			break
		}
		res.Attempts++

		ok, err := c.Create(ctx, table, gen.Row(t), encrypted)
		if err != nil {
			res.Err = err
			if retryable(err) {
				continue
			}
			break
		}
		if ok {
			res.Inserted++
			if onProgress != nil {
				onProgress()
			}
		}
	}

	switch {
	case res.Inserted == target:
		res.Status = StatusOK
	case res.Inserted > 0:
		res.Status = StatusPartial
	default:
		res.Status = StatusFailed
	}
	if res.Status != StatusOK && res.Err == nil {
		res.Err = fmt.Errorf("inserted %d of %d rows", res.Inserted, target)
	}
	return res
}

func retryable(err error) bool {
	return errors.Is(err, dberr.ErrDuplicateKey) || errors.Is(err, dberr.ErrForeignKey)
}
