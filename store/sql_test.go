// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkarlsen/ballotbox/store"
	"github.com/mkarlsen/ballotbox/testutil"
)

func pollRow(id, title, userID string) store.Row {
	now := time.Now().UTC()
	return store.Row{
		"id":          id,
		"title":       title,
		"description": "",
		"user_id":     userID,
		"created_at":  now,
		"updated_at":  now,
	}
}

func optionRow(id, pollID, value string, votes int) store.Row {
	return store.Row{
		"id":         id,
		"poll_id":    pollID,
		"value":      value,
		"votes":      votes,
		"created_at": time.Now().UTC(),
	}
}

func TestInsertAndSelectRoundtrip(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.NewSQL(conn)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, conn, "roundtrip@example.com")

	if _, err := st.InsertRow(ctx, "polls", pollRow("p1", "Lunch spot", userID)); err != nil {
		t.Fatalf("InsertRow failed: %v", err)
	}

	row, err := st.SelectSingle(ctx, "polls", store.Filter{"id": "p1"})
	if err != nil {
		t.Fatalf("SelectSingle failed: %v", err)
	}
	if row.String("title") != "Lunch spot" {
		t.Errorf("title = %q, want %q", row.String("title"), "Lunch spot")
	}
	if row.String("user_id") != userID {
		t.Errorf("user_id = %q, want %q", row.String("user_id"), userID)
	}
	if row.Time("created_at").IsZero() {
		t.Error("created_at did not round-trip")
	}
}

func TestInsertRowsBatch(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.NewSQL(conn)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, conn, "batch@example.com")
	pollID := testutil.CreateTestPoll(t, conn, userID, "Batch poll")

	rows := []store.Row{
		optionRow("o1", pollID, "A", 0),
		optionRow("o2", pollID, "B", 0),
		optionRow("o3", pollID, "C", 0),
	}
	if err := st.InsertRows(ctx, "options", rows); err != nil {
		t.Fatalf("InsertRows failed: %v", err)
	}

	got, err := st.SelectRows(ctx, "options", store.Filter{"poll_id": pollID})
	if err != nil {
		t.Fatalf("SelectRows failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Expected 3 options, got %d", len(got))
	}
}

func TestInsertRowsEmptyBatchIsNoop(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.NewSQL(conn)

	if err := st.InsertRows(context.Background(), "options", nil); err != nil {
		t.Fatalf("Empty batch should be a no-op, got %v", err)
	}
}

func TestSelectSingleNoRows(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.NewSQL(conn)

	_, err := st.SelectSingle(context.Background(), "polls", store.Filter{"id": "missing"})
	if !errors.Is(err, store.ErrNoRows) {
		t.Fatalf("Expected ErrNoRows, got %v", err)
	}
}

func TestSelectSingleAmbiguous(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.NewSQL(conn)

	userID := testutil.CreateTestUser(t, conn, "ambiguous@example.com")
	testutil.CreateTestPoll(t, conn, userID, "First")
	testutil.CreateTestPoll(t, conn, userID, "Second")

	_, err := st.SelectSingle(context.Background(), "polls", store.Filter{"user_id": userID})
	if !errors.Is(err, store.ErrAmbiguous) {
		t.Fatalf("Expected ErrAmbiguous, got %v", err)
	}
}

func TestSliceFilterCompilesToIN(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.NewSQL(conn)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, conn, "in@example.com")
	pollID := testutil.CreateTestPoll(t, conn, userID, "IN clause poll")
	o1 := testutil.AddTestOption(t, conn, pollID, "A", 0)
	testutil.AddTestOption(t, conn, pollID, "B", 0)
	o3 := testutil.AddTestOption(t, conn, pollID, "C", 0)

	rows, err := st.SelectRows(ctx, "options", store.Filter{"id": []string{o1, o3}})
	if err != nil {
		t.Fatalf("SelectRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(rows))
	}
	for _, row := range rows {
		if v := row.String("value"); v != "A" && v != "C" {
			t.Errorf("Unexpected option %q in result", v)
		}
	}
}

func TestEmptySliceFilterMatchesNothing(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.NewSQL(conn)

	userID := testutil.CreateTestUser(t, conn, "empty-in@example.com")
	pollID := testutil.CreateTestPoll(t, conn, userID, "Empty IN poll")
	testutil.AddTestOption(t, conn, pollID, "A", 0)

	rows, err := st.SelectRows(context.Background(), "options", store.Filter{"id": []string{}})
	if err != nil {
		t.Fatalf("SelectRows failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no rows for empty IN set, got %d", len(rows))
	}
}

func TestUpdateRows(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.NewSQL(conn)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, conn, "update@example.com")
	pollID := testutil.CreateTestPoll(t, conn, userID, "Before")

	err := st.UpdateRows(ctx, "polls", store.Row{"title": "After"}, store.Filter{"id": pollID})
	if err != nil {
		t.Fatalf("UpdateRows failed: %v", err)
	}

	row, err := st.SelectSingle(ctx, "polls", store.Filter{"id": pollID})
	if err != nil {
		t.Fatalf("SelectSingle failed: %v", err)
	}
	if row.String("title") != "After" {
		t.Errorf("title = %q, want %q", row.String("title"), "After")
	}
}

func TestDeleteRows(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.NewSQL(conn)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, conn, "delete@example.com")
	pollID := testutil.CreateTestPoll(t, conn, userID, "Delete poll")
	o1 := testutil.AddTestOption(t, conn, pollID, "A", 0)
	o2 := testutil.AddTestOption(t, conn, pollID, "B", 0)
	testutil.AddTestOption(t, conn, pollID, "C", 0)

	err := st.DeleteRows(ctx, "options", store.Filter{"id": []string{o1, o2}})
	if err != nil {
		t.Fatalf("DeleteRows failed: %v", err)
	}

	rows, err := st.SelectRows(ctx, "options", store.Filter{"poll_id": pollID})
	if err != nil {
		t.Fatalf("SelectRows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 remaining option, got %d", len(rows))
	}
	if rows[0].String("value") != "C" {
		t.Errorf("Remaining option = %q, want C", rows[0].String("value"))
	}
}

func TestIncrementVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.NewSQL(conn)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, conn, "vote@example.com")
	pollID := testutil.CreateTestPoll(t, conn, userID, "Vote poll")
	optionID := testutil.AddTestOption(t, conn, pollID, "A", 5)

	if err := st.IncrementVote(ctx, optionID); err != nil {
		t.Fatalf("IncrementVote failed: %v", err)
	}

	row, err := st.SelectSingle(ctx, "options", store.Filter{"id": optionID})
	if err != nil {
		t.Fatalf("SelectSingle failed: %v", err)
	}
	if row.Int("votes") != 6 {
		t.Errorf("votes = %d, want 6", row.Int("votes"))
	}
}

func TestIncrementVoteMissingOption(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.NewSQL(conn)

	err := st.IncrementVote(context.Background(), "missing")
	if !errors.Is(err, store.ErrNoRows) {
		t.Fatalf("Expected ErrNoRows, got %v", err)
	}
}
