// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SetTimeoutRequest struct {
	Minutes int `json:"minutes"`
}

// Response types

type SignUpResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type SignInResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RefreshResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
}

type RevokeOthersResponse struct {
	Revoked int `json:"revoked"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
