// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkarlsen/ballotbox/middleware"
	"github.com/mkarlsen/ballotbox/polls"
)

type PollHandler struct {
	service *polls.Service
}

func NewPollHandler(service *polls.Service) *PollHandler {
	return &PollHandler{service: service}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var form polls.PollForm
	if err := middleware.ParseJSONBody(r, &form); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	userID := middleware.UserID(r)
	data, err := h.service.CreatePoll(r.Context(), form, userID)
	if err != nil {
		logServiceError("create poll", err)
		middleware.JSONResponse(w, polls.StatusOf(err), polls.Fail(err))
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, polls.Ok(data))
}

// UpdatePoll handles PUT /polls/{id}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var form polls.PollForm
	if err := middleware.ParseJSONBody(r, &form); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	userID := middleware.UserID(r)
	data, err := h.service.UpdatePoll(r.Context(), pollID, form, userID)
	if err != nil {
		logServiceError("update poll", err)
		middleware.JSONResponse(w, polls.StatusOf(err), polls.Fail(err))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls.Ok(data))
}

// logServiceError records backend failures; expected rejections
// (validation, authorization, not found) are the caller's problem and
// stay out of the log.
func logServiceError(op string, err error) {
	var serr *polls.StoreError
	if errors.As(err, &serr) {
		slog.Error("store failure", "op", op, "error", serr.Err)
	}
}
