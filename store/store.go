// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoRows is returned by SelectSingle when no row matches the filter,
	// and by IncrementVote when the option does not exist.
	ErrNoRows = errors.New("no rows matched")

	// ErrAmbiguous is returned by SelectSingle when more than one row
	// matches the filter.
	ErrAmbiguous = errors.New("filter matched more than one row")
)

// Row is a single table row as a column → value map. Values carry
// whatever representation the driver produced; use the typed accessors
// to read them.
type Row map[string]any

// Filter selects rows by column equality. A slice value compiles to an
// IN clause. A nil or empty filter matches every row.
type Filter map[string]any

// Store is the data-store capability consumed by the poll and session
// services. Implementations perform one statement per call; there is no
// cross-call transaction.
type Store interface {
	// InsertRow inserts a single row and returns it as stored.
	InsertRow(ctx context.Context, table string, values Row) (Row, error)

	// InsertRows inserts a batch of rows in one statement.
	InsertRows(ctx context.Context, table string, rows []Row) error

	// SelectRows returns every row matching the filter.
	SelectRows(ctx context.Context, table string, filter Filter) ([]Row, error)

	// SelectSingle returns exactly one matching row. Zero matches is
	// ErrNoRows; more than one is ErrAmbiguous.
	SelectSingle(ctx context.Context, table string, filter Filter) (Row, error)

	// UpdateRows sets the given columns on every row matching the filter.
	UpdateRows(ctx context.Context, table string, values Row, filter Filter) error

	// DeleteRows removes every row matching the filter.
	DeleteRows(ctx context.Context, table string, filter Filter) error

	// IncrementVote atomically adds one to an option's vote count.
	// Returns ErrNoRows if the option does not exist.
	IncrementVote(ctx context.Context, optionID string) error
}

// String reads a column as a string. Text columns come back as string
// or []byte depending on the driver.
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// Int reads a column as an int64.
func (r Row) Int(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// timeLayouts covers the textual timestamp representations the two
// supported drivers produce on scan.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Time reads a column as a time.Time, parsing textual representations
// when the driver does not return time.Time directly.
func (r Row) Time(col string) time.Time {
	switch v := r[col].(type) {
	case time.Time:
		return v
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	default:
		return time.Time{}
	}
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// opError annotates a driver error with the statement that failed.
func opError(op, table string, err error) error {
	return fmt.Errorf("%s %s: %w", op, table, err)
}
