// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateSessionToken(t *testing.T) {
	token1, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}
	token2, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if token1 == token2 {
		t.Error("Expected unique tokens")
	}
	if len(token1) < 30 {
		t.Errorf("Token too short: %d chars", len(token1))
	}
	if strings.ContainsAny(token1, "+/=") {
		t.Errorf("Token should be URL-safe without padding: %s", token1)
	}
}

func TestHashSessionToken(t *testing.T) {
	token := "some-session-token"

	h1 := HashSessionToken(token)
	h2 := HashSessionToken(token)
	if h1 != h2 {
		t.Error("Expected deterministic hash")
	}
	if len(h1) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(h1))
	}
	if HashSessionToken("other-token") == h1 {
		t.Error("Different tokens should hash differently")
	}
}

func TestHashIP(t *testing.T) {
	h1 := HashIP("192.168.1.1", "salt1")
	h2 := HashIP("192.168.1.1", "salt1")
	if h1 != h2 {
		t.Error("Expected deterministic hash for same IP and salt")
	}

	if HashIP("192.168.1.1", "salt2") == h1 {
		t.Error("Different salts should produce different hashes")
	}
	if HashIP("192.168.1.2", "salt1") == h1 {
		t.Error("Different IPs should produce different hashes")
	}
	if len(h1) != 16 {
		t.Errorf("Expected 16 hex chars, got %d", len(h1))
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "correct horse battery staple" {
		t.Error("Hash should not equal the password")
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("Expected password to verify")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("Wrong password should not verify")
	}
}
