// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sessions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/mkarlsen/ballotbox/auth"
	"github.com/mkarlsen/ballotbox/store"
)

// Timeout bounds in minutes: 5 minutes to 7 days.
const (
	MinTimeoutMinutes = 5
	MaxTimeoutMinutes = 7 * 24 * 60
)

// ExpiryWarning is the default window for ExpiringSoon.
const ExpiryWarning = 5 * time.Minute

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrInvalidSession     = errors.New("Session is invalid or expired")
	ErrEmailTaken         = errors.New("An account with this email already exists")
	ErrSessionNotFound    = errors.New("Session not found")
	ErrInvalidEmail       = errors.New("A valid email address is required")
	ErrWeakPassword       = errors.New("Password must be at least 8 characters")
	ErrInvalidTimeout     = errors.New("Session timeout must be between 5 minutes and 7 days")
)

// StoreError wraps a backend failure with the operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("Error %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// User is an account as exposed to callers. The password hash never
// leaves the service.
type User struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	SessionTimeoutMinutes int       `json:"session_timeout_minutes"`
	CreatedAt             time.Time `json:"created_at"`
}

// Info describes one session in a listing.
type Info struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	LastActive   string    `json:"last_active"`
	UserAgent    string    `json:"user_agent"`
	IPHash       string    `json:"ip"`
	ExpiresAt    time.Time `json:"expires_at"`
	IsCurrent    bool      `json:"is_current"`
}

// Service owns the session lifecycle. The token is an explicit
// capability: every call takes it as an argument and expiry is checked
// synchronously before use. Extension happens only through Refresh;
// there is no background refresher.
type Service struct {
	store          store.Store
	defaultTimeout int
	ipSalt         string
	now            func() time.Time
}

func NewService(st store.Store, defaultTimeoutMinutes int, ipSalt string) *Service {
	return &Service{
		store:          st,
		defaultTimeout: defaultTimeoutMinutes,
		ipSalt:         ipSalt,
		now:            time.Now,
	}
}

// SignUp registers an account with the service default timeout.
func (s *Service) SignUp(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, ErrInvalidEmail
	}
	if len(password) < 8 {
		return User{}, ErrWeakPassword
	}

	_, err := s.store.SelectSingle(ctx, "users", store.Filter{"email": email})
	if err == nil {
		return User{}, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNoRows) {
		return User{}, &StoreError{Op: "checking email", Err: err}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, &StoreError{Op: "creating account", Err: err}
	}

	user := User{
		ID:                    uuid.New().String(),
		Email:                 email,
		SessionTimeoutMinutes: s.defaultTimeout,
		CreatedAt:             s.now().UTC(),
	}
	_, err = s.store.InsertRow(ctx, "users", store.Row{
		"id":                      user.ID,
		"email":                   user.Email,
		"password_hash":           hash,
		"session_timeout_minutes": user.SessionTimeoutMinutes,
		"created_at":              user.CreatedAt,
	})
	if err != nil {
		return User{}, &StoreError{Op: "creating account", Err: err}
	}

	return user, nil
}

// SignIn verifies credentials and mints a session. The raw token is
// returned exactly once; only its digest is stored.
func (s *Service) SignIn(ctx context.Context, email, password, userAgent, ip string) (token string, expiresAt time.Time, err error) {
	email = strings.TrimSpace(strings.ToLower(email))

	row, err := s.store.SelectSingle(ctx, "users", store.Filter{"email": email})
	if errors.Is(err, store.ErrNoRows) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", time.Time{}, &StoreError{Op: "fetching account", Err: err}
	}
	if !auth.CheckPassword(row.String("password_hash"), password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, err = auth.GenerateSessionToken()
	if err != nil {
		return "", time.Time{}, &StoreError{Op: "creating session", Err: err}
	}

	timeout := s.timeoutFor(row)
	now := s.now().UTC()
	expiresAt = now.Add(timeout)

	_, err = s.store.InsertRow(ctx, "sessions", store.Row{
		"id":             uuid.New().String(),
		"user_id":        row.String("id"),
		"token_hash":     auth.HashSessionToken(token),
		"user_agent":     userAgent,
		"ip_hash":        auth.HashIP(ip, s.ipSalt),
		"created_at":     now,
		"last_active_at": now,
		"expires_at":     expiresAt,
	})
	if err != nil {
		return "", time.Time{}, &StoreError{Op: "creating session", Err: err}
	}

	return token, expiresAt, nil
}

// Validate resolves a token to its user id, checking expiry
// synchronously. Expired sessions are removed on sight. Valid calls
// bump last_active_at.
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	row, err := s.lookup(ctx, token)
	if err != nil {
		return "", err
	}

	err = s.store.UpdateRows(ctx, "sessions",
		store.Row{"last_active_at": s.now().UTC()},
		store.Filter{"id": row.String("id")})
	if err != nil {
		return "", &StoreError{Op: "updating session", Err: err}
	}

	return row.String("user_id"), nil
}

// Refresh extends a valid session by the owning user's configured
// timeout. Explicit and caller-owned: nothing refreshes sessions in
// the background.
func (s *Service) Refresh(ctx context.Context, token string) (time.Time, error) {
	row, err := s.lookup(ctx, token)
	if err != nil {
		return time.Time{}, err
	}

	userRow, err := s.store.SelectSingle(ctx, "users", store.Filter{"id": row.String("user_id")})
	if err != nil {
		return time.Time{}, &StoreError{Op: "fetching account", Err: err}
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.timeoutFor(userRow))

	err = s.store.UpdateRows(ctx, "sessions",
		store.Row{"expires_at": expiresAt, "last_active_at": now},
		store.Filter{"id": row.String("id")})
	if err != nil {
		return time.Time{}, &StoreError{Op: "updating session", Err: err}
	}

	return expiresAt, nil
}

// List returns every session of the user, oldest first, marking the
// one the given token belongs to.
func (s *Service) List(ctx context.Context, userID, currentToken string) ([]Info, error) {
	rows, err := s.store.SelectRows(ctx, "sessions", store.Filter{"user_id": userID})
	if err != nil {
		return nil, &StoreError{Op: "listing sessions", Err: err}
	}

	currentHash := auth.HashSessionToken(currentToken)
	infos := make([]Info, len(rows))
	for i, row := range rows {
		lastActive := row.Time("last_active_at")
		infos[i] = Info{
			ID:           row.String("id"),
			CreatedAt:    row.Time("created_at"),
			LastActiveAt: lastActive,
			LastActive:   humanize.Time(lastActive),
			UserAgent:    row.String("user_agent"),
			IPHash:       row.String("ip_hash"),
			ExpiresAt:    row.Time("expires_at"),
			IsCurrent:    row.String("token_hash") == currentHash,
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})

	return infos, nil
}

// Revoke deletes one of the user's sessions by id. Sessions of other
// users are reported as not found rather than forbidden.
func (s *Service) Revoke(ctx context.Context, userID, sessionID string) error {
	row, err := s.store.SelectSingle(ctx, "sessions", store.Filter{"id": sessionID})
	if errors.Is(err, store.ErrNoRows) {
		return ErrSessionNotFound
	}
	if err != nil {
		return &StoreError{Op: "fetching session", Err: err}
	}
	if row.String("user_id") != userID {
		return ErrSessionNotFound
	}

	if err := s.store.DeleteRows(ctx, "sessions", store.Filter{"id": sessionID}); err != nil {
		return &StoreError{Op: "revoking session", Err: err}
	}
	return nil
}

// RevokeOthers deletes every session of the user except the current
// one and returns how many were removed.
func (s *Service) RevokeOthers(ctx context.Context, userID, currentToken string) (int, error) {
	rows, err := s.store.SelectRows(ctx, "sessions", store.Filter{"user_id": userID})
	if err != nil {
		return 0, &StoreError{Op: "listing sessions", Err: err}
	}

	currentHash := auth.HashSessionToken(currentToken)
	var ids []string
	for _, row := range rows {
		if row.String("token_hash") != currentHash {
			ids = append(ids, row.String("id"))
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.store.DeleteRows(ctx, "sessions", store.Filter{"id": ids}); err != nil {
		return 0, &StoreError{Op: "revoking sessions", Err: err}
	}
	return len(ids), nil
}

// SignOut deletes the session behind the token. Unknown tokens are a
// no-op.
func (s *Service) SignOut(ctx context.Context, token string) error {
	err := s.store.DeleteRows(ctx, "sessions", store.Filter{"token_hash": auth.HashSessionToken(token)})
	if err != nil {
		return &StoreError{Op: "revoking session", Err: err}
	}
	return nil
}

// SetTimeout updates the user's session timeout. Applies to future
// sign-ins and refreshes; live sessions keep their current expiry.
func (s *Service) SetTimeout(ctx context.Context, userID string, minutes int) error {
	if minutes < MinTimeoutMinutes || minutes > MaxTimeoutMinutes {
		return ErrInvalidTimeout
	}

	err := s.store.UpdateRows(ctx, "users",
		store.Row{"session_timeout_minutes": minutes},
		store.Filter{"id": userID})
	if err != nil {
		return &StoreError{Op: "updating account", Err: err}
	}
	return nil
}

// ExpiringSoon reports whether the session expires within the warning
// window. Invalid tokens count as expiring.
func (s *Service) ExpiringSoon(ctx context.Context, token string, warning time.Duration) (bool, error) {
	if warning <= 0 {
		warning = ExpiryWarning
	}
	row, err := s.lookup(ctx, token)
	if errors.Is(err, ErrInvalidSession) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return row.Time("expires_at").Before(s.now().UTC().Add(warning)), nil
}

// lookup resolves a token to a live session row, removing it when
// expired.
func (s *Service) lookup(ctx context.Context, token string) (store.Row, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	row, err := s.store.SelectSingle(ctx, "sessions", store.Filter{"token_hash": auth.HashSessionToken(token)})
	if errors.Is(err, store.ErrNoRows) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, &StoreError{Op: "fetching session", Err: err}
	}

	if row.Time("expires_at").Before(s.now().UTC()) {
		if err := s.store.DeleteRows(ctx, "sessions", store.Filter{"id": row.String("id")}); err != nil {
			return nil, &StoreError{Op: "revoking session", Err: err}
		}
		return nil, ErrInvalidSession
	}

	return row, nil
}

func (s *Service) timeoutFor(userRow store.Row) time.Duration {
	minutes := int(userRow.Int("session_timeout_minutes"))
	if minutes <= 0 {
		minutes = s.defaultTimeout
	}
	return time.Duration(minutes) * time.Minute
}
