// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkarlsen/ballotbox/middleware"
	"github.com/mkarlsen/ballotbox/models"
	"github.com/mkarlsen/ballotbox/sessions"
)

type SessionHandler struct {
	service *sessions.Service
}

func NewSessionHandler(service *sessions.Service) *SessionHandler {
	return &SessionHandler{service: service}
}

// SignUp handles POST /auth/sign-up
func (h *SessionHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.service.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}

	slog.Info("account created", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.SignUpResponse{
		UserID: user.ID,
		Email:  user.Email,
	})
}

// SignIn handles POST /auth/sign-in
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	token, expiresAt, err := h.service.SignIn(r.Context(),
		req.Email, req.Password,
		r.UserAgent(), middleware.GetClientIP(r))
	if err != nil {
		h.fail(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SignInResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// SignOut handles POST /auth/sign-out
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	if err := h.service.SignOut(r.Context(), token); err != nil {
		h.fail(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Signed out"})
}

// ListSessions handles GET /sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, token, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	infos, err := h.service.List(r.Context(), userID, token)
	if err != nil {
		h.fail(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, infos)
}

// RevokeSession handles DELETE /sessions/{id}
func (h *SessionHandler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	userID, _, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	if err := h.service.Revoke(r.Context(), userID, sessionID); err != nil {
		h.fail(w, err)
		return
	}

	slog.Info("session revoked", "user_id", userID, "session_id", sessionID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Session revoked"})
}

// RevokeOtherSessions handles POST /sessions/revoke-others
func (h *SessionHandler) RevokeOtherSessions(w http.ResponseWriter, r *http.Request) {
	userID, token, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	revoked, err := h.service.RevokeOthers(r.Context(), userID, token)
	if err != nil {
		h.fail(w, err)
		return
	}

	slog.Info("other sessions revoked", "user_id", userID, "count", revoked)

	middleware.JSONResponse(w, http.StatusOK, models.RevokeOthersResponse{Revoked: revoked})
}

// RefreshSession handles POST /sessions/refresh
func (h *SessionHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	expiresAt, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		h.fail(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RefreshResponse{ExpiresAt: expiresAt})
}

// SetSessionTimeout handles PUT /settings/session-timeout
func (h *SessionHandler) SetSessionTimeout(w http.ResponseWriter, r *http.Request) {
	var req models.SetTimeoutRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	userID, _, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	if err := h.service.SetTimeout(r.Context(), userID, req.Minutes); err != nil {
		h.fail(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Session timeout updated"})
}

// authenticate resolves the caller's token to a user id, writing the
// error response itself on failure.
func (h *SessionHandler) authenticate(w http.ResponseWriter, r *http.Request) (userID, token string, ok bool) {
	token = middleware.BearerToken(r)
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authorization required")
		return "", "", false
	}

	userID, err := h.service.Validate(r.Context(), token)
	if err != nil {
		h.fail(w, err)
		return "", "", false
	}
	return userID, token, true
}

func (h *SessionHandler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, sessions.ErrInvalidCredentials), errors.Is(err, sessions.ErrInvalidSession):
		status = http.StatusUnauthorized
	case errors.Is(err, sessions.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, sessions.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sessions.ErrInvalidEmail),
		errors.Is(err, sessions.ErrWeakPassword),
		errors.Is(err, sessions.ErrInvalidTimeout):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("session operation failed", "error", err)
		middleware.ErrorResponse(w, status, "Database error")
		return
	}
	middleware.ErrorResponse(w, status, err.Error())
}
