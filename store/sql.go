// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// SQLStore implements Store over database/sql. It uses $1-style
// placeholders, which both lib/pq and modernc.org/sqlite accept, and
// builds statements with sorted column order so generated SQL is
// deterministic.
type SQLStore struct {
	db *sql.DB
}

func NewSQL(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) InsertRow(ctx context.Context, table string, values Row) (Row, error) {
	cols := sortedKeys(values)

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES (")

	args := make([]any, 0, len(cols))
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(placeholder(len(args) + 1))
		args = append(args, values[col])
	}
	sb.WriteString(")")

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return nil, opError("insert into", table, err)
	}

	inserted := make(Row, len(values))
	for col, v := range values {
		inserted[col] = v
	}
	return inserted, nil
}

func (s *SQLStore) InsertRows(ctx context.Context, table string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	// All rows in a batch share the first row's column set.
	cols := sortedKeys(rows[0])

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(cols))
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j, col := range cols {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(placeholder(len(args) + 1))
			args = append(args, row[col])
		}
		sb.WriteString(")")
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return opError("insert into", table, err)
	}
	return nil
}

func (s *SQLStore) SelectRows(ctx context.Context, table string, filter Filter) ([]Row, error) {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table)
	args := appendWhere(&sb, filter, 0)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, opError("select from", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, opError("select from", table, err)
	}

	var results []Row
	for rows.Next() {
		values := make([]any, len(cols))
		scanTargets := make([]any, len(cols))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, opError("select from", table, err)
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, opError("select from", table, err)
	}

	return results, nil
}

func (s *SQLStore) SelectSingle(ctx context.Context, table string, filter Filter) (Row, error) {
	rows, err := s.SelectRows(ctx, table, filter)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, ErrNoRows
	case 1:
		return rows[0], nil
	default:
		return nil, ErrAmbiguous
	}
}

func (s *SQLStore) UpdateRows(ctx context.Context, table string, values Row, filter Filter) error {
	cols := sortedKeys(values)

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(table)
	sb.WriteString(" SET ")

	args := make([]any, 0, len(cols)+len(filter))
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col)
		sb.WriteString(" = ")
		sb.WriteString(placeholder(len(args) + 1))
		args = append(args, values[col])
	}
	args = append(args, appendWhere(&sb, filter, len(args))...)

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return opError("update", table, err)
	}
	return nil
}

func (s *SQLStore) DeleteRows(ctx context.Context, table string, filter Filter) error {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(table)
	args := appendWhere(&sb, filter, 0)

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return opError("delete from", table, err)
	}
	return nil
}

func (s *SQLStore) IncrementVote(ctx context.Context, optionID string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE options SET votes = votes + 1 WHERE id = $1", optionID)
	if err != nil {
		return opError("update", "options", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return opError("update", "options", err)
	}
	if affected == 0 {
		return ErrNoRows
	}
	return nil
}

// appendWhere writes a WHERE clause for the filter and returns its
// arguments. argOffset is the number of placeholders already consumed
// by the statement.
func appendWhere(sb *strings.Builder, filter Filter, argOffset int) []any {
	if len(filter) == 0 {
		return nil
	}

	sb.WriteString(" WHERE ")

	var args []any
	for i, col := range sortedKeys(Row(filter)) {
		if i > 0 {
			sb.WriteString(" AND ")
		}

		value := filter[col]
		if isSlice(value) {
			elems := sliceValues(value)
			if len(elems) == 0 {
				// IN over an empty set matches nothing.
				sb.WriteString("1 = 0")
				continue
			}
			sb.WriteString(col)
			sb.WriteString(" IN (")
			for j, elem := range elems {
				if j > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(placeholder(argOffset + len(args) + 1))
				args = append(args, elem)
			}
			sb.WriteString(")")
			continue
		}

		sb.WriteString(col)
		sb.WriteString(" = ")
		sb.WriteString(placeholder(argOffset + len(args) + 1))
		args = append(args, value)
	}

	return args
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func sortedKeys(m Row) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isSlice(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Slice
}

func sliceValues(v any) []any {
	rv := reflect.ValueOf(v)
	elems := make([]any, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems
}
