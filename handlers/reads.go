// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkarlsen/ballotbox/cache"
	"github.com/mkarlsen/ballotbox/middleware"
	"github.com/mkarlsen/ballotbox/polls"
)

type ReadHandler struct {
	service *polls.Service
	views   *cache.View
}

func NewReadHandler(service *polls.Service, views *cache.View) *ReadHandler {
	return &ReadHandler{service: service, views: views}
}

// ListPolls handles GET /polls
func (h *ReadHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	if payload, ok := h.views.Get("/polls"); ok {
		writeCached(w, payload)
		return
	}

	list, err := h.service.ListPolls(r.Context())
	if err != nil {
		slog.Error("failed to list polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	payload, err := json.Marshal(list)
	if err != nil {
		slog.Error("failed to encode poll list", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Encoding error")
		return
	}

	h.views.Set("/polls", payload)
	writeCached(w, payload)
}

// GetPoll handles GET /polls/{id}
func (h *ReadHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	path := "/polls/" + pollID
	if payload, ok := h.views.Get(path); ok {
		writeCached(w, payload)
		return
	}

	poll, err := h.service.GetPoll(r.Context(), pollID)
	if errors.Is(err, polls.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to fetch poll", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	payload, err := json.Marshal(poll)
	if err != nil {
		slog.Error("failed to encode poll", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Encoding error")
		return
	}

	h.views.Set(path, payload)
	writeCached(w, payload)
}

func writeCached(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
