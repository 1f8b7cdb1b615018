// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mkarlsen/ballotbox/auth"
	"github.com/mkarlsen/ballotbox/cliparse"
	"github.com/mkarlsen/ballotbox/db"
)

// SetupTestDB creates a fresh in-memory database with the full schema.
// The pool is pinned to a single connection so every statement sees
// the same in-memory database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                  3318,
		DatabaseURL:           ":memory:",
		DatabaseType:          "sqlite",
		IPHashSalt:            "test-ip-salt",
		SessionTimeoutMinutes: 60,
	}
}

// CreateTestUser inserts a user and returns its ID. The password is
// always "test-password".
func CreateTestUser(t *testing.T, conn *sql.DB, email string) string {
	t.Helper()

	userID := uuid.New().String()
	hash, err := auth.HashPassword("test-password")
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO users (id, email, password_hash, session_timeout_minutes, created_at)
		VALUES ($1, $2, $3, 60, $4)
	`, userID, email, hash, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// CreateTestSession inserts a live session for the user and returns
// the raw token.
func CreateTestSession(t *testing.T, conn *sql.DB, userID string) string {
	t.Helper()

	token, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	now := time.Now().UTC()
	_, err = conn.Exec(`
		INSERT INTO sessions (id, user_id, token_hash, user_agent, ip_hash, created_at, last_active_at, expires_at)
		VALUES ($1, $2, $3, 'test-agent', 'test-ip', $4, $4, $5)
	`, uuid.New().String(), userID, auth.HashSessionToken(token), now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return token
}

// CreateTestPoll inserts a poll owned by the user and returns its ID.
func CreateTestPoll(t *testing.T, conn *sql.DB, userID, title string) string {
	t.Helper()

	pollID := uuid.New().String()
	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO polls (id, title, description, user_id, created_at, updated_at)
		VALUES ($1, $2, '', $3, $4, $4)
	`, pollID, title, userID, now)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, pollID, value string, votes int) string {
	t.Helper()

	optionID := uuid.New().String()
	_, err := conn.Exec(`
		INSERT INTO options (id, poll_id, value, votes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, optionID, pollID, value, votes, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
