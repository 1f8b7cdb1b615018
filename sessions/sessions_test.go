// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkarlsen/ballotbox/store"
	"github.com/mkarlsen/ballotbox/testutil"
)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	st := store.NewSQL(conn)
	return NewService(st, 60, "test-ip-salt"), st
}

func signUpAndIn(t *testing.T, svc *Service, email string) (userID, token string) {
	t.Helper()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, email, "hunter2hunter2")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	token, _, err = svc.SignIn(ctx, email, "hunter2hunter2", "test-agent", "10.0.0.1")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	return user.ID, token
}

func TestSignUpNormalizesEmail(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.SignUp(context.Background(), "  Alice@Example.COM ", "hunter2hunter2")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want lowercase trimmed", user.Email)
	}
	if user.SessionTimeoutMinutes != 60 {
		t.Errorf("Timeout = %d, want service default 60", user.SessionTimeoutMinutes)
	}
}

func TestSignUpRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "not-an-email", "hunter2hunter2"); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("Expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.SignUp(ctx, "a@b.com", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("Expected ErrWeakPassword, got %v", err)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "dup@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	_, err := svc.SignUp(ctx, "DUP@example.com", "hunter2hunter2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Expected ErrEmailTaken, got %v", err)
	}
}

func TestSignInWrongCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "carol@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	if _, _, err := svc.SignIn(ctx, "carol@example.com", "wrong-password", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.SignIn(ctx, "nobody@example.com", "hunter2hunter2", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestSignInExpiryUsesUserTimeout(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "dave@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	before := time.Now().UTC()
	_, expiresAt, err := svc.SignIn(ctx, "dave@example.com", "hunter2hunter2", "", "")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	want := before.Add(60 * time.Minute)
	if expiresAt.Before(want.Add(-time.Minute)) || expiresAt.After(want.Add(time.Minute)) {
		t.Errorf("expiresAt = %v, want ~%v", expiresAt, want)
	}
}

func TestValidateResolvesUser(t *testing.T) {
	svc, _ := newTestService(t)
	userID, token := signUpAndIn(t, svc, "erin@example.com")

	got, err := svc.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got != userID {
		t.Errorf("Validate returned %q, want %q", got, userID)
	}
}

func TestValidateRejectsBadTokens(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Validate(context.Background(), ""); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Expected ErrInvalidSession for empty token, got %v", err)
	}
	if _, err := svc.Validate(context.Background(), "bogus"); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Expected ErrInvalidSession for unknown token, got %v", err)
	}
}

func TestValidateRemovesExpiredSession(t *testing.T) {
	svc, st := newTestService(t)
	_, token := signUpAndIn(t, svc, "frank@example.com")

	// Jump the clock past expiry.
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, err := svc.Validate(context.Background(), token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Expected ErrInvalidSession, got %v", err)
	}

	// The expired row was deleted on sight.
	rows, err := st.SelectRows(context.Background(), "sessions", store.Filter{})
	if err != nil {
		t.Fatalf("SelectRows failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected expired session to be removed, found %d rows", len(rows))
	}
}

func TestRefreshExtendsExpiry(t *testing.T) {
	svc, _ := newTestService(t)
	_, token := signUpAndIn(t, svc, "grace@example.com")

	// Move 30 minutes in; the session (60-minute timeout) is still live.
	base := time.Now().UTC()
	svc.now = func() time.Time { return base.Add(30 * time.Minute) }

	expiresAt, err := svc.Refresh(context.Background(), token)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	want := base.Add(90 * time.Minute)
	if expiresAt.Before(want.Add(-time.Minute)) || expiresAt.After(want.Add(time.Minute)) {
		t.Errorf("expiresAt = %v, want ~%v", expiresAt, want)
	}
}

func TestListMarksCurrentSession(t *testing.T) {
	svc, _ := newTestService(t)
	userID, first := signUpAndIn(t, svc, "heidi@example.com")

	second, _, err := svc.SignIn(context.Background(), "heidi@example.com", "hunter2hunter2", "other-agent", "10.0.0.2")
	if err != nil {
		t.Fatalf("Second SignIn failed: %v", err)
	}
	_ = second

	infos, err := svc.List(context.Background(), userID, first)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(infos))
	}

	current := 0
	for _, info := range infos {
		if info.IsCurrent {
			current++
		}
		if info.LastActive == "" {
			t.Error("Expected humanized last-active text")
		}
	}
	if current != 1 {
		t.Errorf("Expected exactly one current session, got %d", current)
	}

	if infos[1].CreatedAt.Before(infos[0].CreatedAt) {
		t.Error("Expected sessions sorted oldest first")
	}
}

func TestRevokeOtherUsersSessionIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	aliceID, aliceToken := signUpAndIn(t, svc, "alice@example.com")
	bobID, _ := signUpAndIn(t, svc, "bob@example.com")

	infos, err := svc.List(ctx, aliceID, aliceToken)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	// Bob cannot revoke Alice's session, and the error does not reveal
	// that it exists.
	err = svc.Revoke(ctx, bobID, infos[0].ID)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}

	if err := svc.Revoke(ctx, aliceID, infos[0].ID); err != nil {
		t.Errorf("Owner revoke failed: %v", err)
	}
	if err := svc.Revoke(ctx, aliceID, infos[0].ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after revoke, got %v", err)
	}
}

func TestRevokeOthersKeepsCurrent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	userID, current := signUpAndIn(t, svc, "ivan@example.com")
	for i := 0; i < 2; i++ {
		if _, _, err := svc.SignIn(ctx, "ivan@example.com", "hunter2hunter2", "", ""); err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}
	}

	revoked, err := svc.RevokeOthers(ctx, userID, current)
	if err != nil {
		t.Fatalf("RevokeOthers failed: %v", err)
	}
	if revoked != 2 {
		t.Errorf("Expected 2 revoked, got %d", revoked)
	}

	// Current session survives; repeat revokes nothing.
	if _, err := svc.Validate(ctx, current); err != nil {
		t.Errorf("Current session should survive: %v", err)
	}
	revoked, err = svc.RevokeOthers(ctx, userID, current)
	if err != nil || revoked != 0 {
		t.Errorf("Expected 0 revoked on repeat, got %d, %v", revoked, err)
	}
}

func TestSignOut(t *testing.T) {
	svc, _ := newTestService(t)
	_, token := signUpAndIn(t, svc, "judy@example.com")
	ctx := context.Background()

	if err := svc.SignOut(ctx, token); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if _, err := svc.Validate(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Expected ErrInvalidSession after sign-out, got %v", err)
	}

	// Signing out an unknown token is a no-op.
	if err := svc.SignOut(ctx, "bogus"); err != nil {
		t.Errorf("Expected no-op, got %v", err)
	}
}

func TestSetTimeoutBounds(t *testing.T) {
	svc, _ := newTestService(t)
	userID, _ := signUpAndIn(t, svc, "mallory@example.com")
	ctx := context.Background()

	tests := []struct {
		minutes int
		wantErr bool
	}{
		{4, true},
		{5, false},
		{60, false},
		{10080, false},
		{10081, true},
	}
	for _, tt := range tests {
		err := svc.SetTimeout(ctx, userID, tt.minutes)
		if tt.wantErr && !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("SetTimeout(%d): expected ErrInvalidTimeout, got %v", tt.minutes, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("SetTimeout(%d): unexpected error %v", tt.minutes, err)
		}
	}
}

func TestSetTimeoutAppliesToNextSignIn(t *testing.T) {
	svc, _ := newTestService(t)
	userID, _ := signUpAndIn(t, svc, "oscar@example.com")
	ctx := context.Background()

	if err := svc.SetTimeout(ctx, userID, 5); err != nil {
		t.Fatalf("SetTimeout failed: %v", err)
	}

	before := time.Now().UTC()
	_, expiresAt, err := svc.SignIn(ctx, "oscar@example.com", "hunter2hunter2", "", "")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	want := before.Add(5 * time.Minute)
	if expiresAt.Before(want.Add(-time.Minute)) || expiresAt.After(want.Add(time.Minute)) {
		t.Errorf("expiresAt = %v, want ~%v", expiresAt, want)
	}
}

func TestExpiringSoon(t *testing.T) {
	svc, _ := newTestService(t)
	_, token := signUpAndIn(t, svc, "peggy@example.com")
	ctx := context.Background()

	soon, err := svc.ExpiringSoon(ctx, token, 0)
	if err != nil {
		t.Fatalf("ExpiringSoon failed: %v", err)
	}
	if soon {
		t.Error("Fresh session should not be expiring soon")
	}

	// Within the warning window but not yet expired.
	base := time.Now().UTC()
	svc.now = func() time.Time { return base.Add(57 * time.Minute) }
	soon, err = svc.ExpiringSoon(ctx, token, 0)
	if err != nil {
		t.Fatalf("ExpiringSoon failed: %v", err)
	}
	if !soon {
		t.Error("Session within the warning window should be expiring soon")
	}

	// Invalid tokens count as expiring.
	soon, err = svc.ExpiringSoon(ctx, "bogus", 0)
	if err != nil || !soon {
		t.Errorf("Expected invalid token to report expiring, got %v, %v", soon, err)
	}
}
