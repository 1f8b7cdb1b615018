// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store provides the data-store capability the services are
written against.

# The Capability

Store exposes CRUD-style, one-statement-per-call operations:

	InsertRow(ctx, table, values) (Row, error)
	InsertRows(ctx, table, rows) error
	SelectRows(ctx, table, filter) ([]Row, error)
	SelectSingle(ctx, table, filter) (Row, error)
	UpdateRows(ctx, table, values, filter) error
	DeleteRows(ctx, table, filter) error
	IncrementVote(ctx, optionID) error

SelectSingle distinguishes its failure modes: ErrNoRows when nothing
matches, ErrAmbiguous when more than one row does. IncrementVote is the
single opaque atomic operation used by the voting flow.

There are no cross-call transactions. Callers that issue several writes
in sequence get per-statement durability only.

# Filters

A Filter is a column → value equality map. Slice values become IN
clauses, which is how batched deletes by id set are expressed:

	store.DeleteRows(ctx, "options", store.Filter{"id": ids})

# Rows

Row values carry whatever representation the driver produced; the
String/Int/Time accessors normalize across lib/pq (text as []byte) and
modernc.org/sqlite (timestamps as text).

# SQL Implementation

SQLStore builds statements with $1 placeholders and sorted column
order, so the same code runs against postgres and sqlite and generated
SQL is stable for a given input.
*/
package store
