// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/mkarlsen/ballotbox/middleware"
	"github.com/mkarlsen/ballotbox/polls"
)

type VoteHandler struct {
	service *polls.Service
}

func NewVoteHandler(service *polls.Service) *VoteHandler {
	return &VoteHandler{service: service}
}

// Vote handles POST /options/{id}/vote
//
// Voting is anonymous and unthrottled: the count is a plain increment
// with no per-user record, so repeated votes from the same client all
// count.
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	optionID := r.PathValue("id")
	if optionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	data, err := h.service.Vote(r.Context(), optionID)
	if err != nil {
		logServiceError("vote", err)
		middleware.JSONResponse(w, polls.StatusOf(err), polls.Fail(err))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls.Ok(data))
}
