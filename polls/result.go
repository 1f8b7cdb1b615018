// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"errors"
	"net/http"
)

// Result is the discriminated response shape every mutation entry point
// produces: {success:true, data} or {success:false, error}. Error is a
// list of validation issues for payload violations and a plain string
// for everything else.
type Result struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Error   any  `json:"error,omitempty"`
}

func Ok(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail converts a service error into the failure branch. This is the
// single point where internal errors become caller-visible payloads;
// nothing escapes the mutation boundary un-converted.
func Fail(err error) Result {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return Result{Success: false, Error: verr.Issues}
	}
	return Result{Success: false, Error: err.Error()}
}

// StatusOf maps a service error to an HTTP status code.
func StatusOf(err error) int {
	var verr *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingUser), errors.Is(err, ErrNotOwner):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrOptionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
