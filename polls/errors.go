// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"errors"
	"fmt"
)

// Sentinel failures with their user-facing messages.
var (
	ErrMissingUser    = errors.New("User must be authenticated to perform this action")
	ErrNotFound       = errors.New("Poll not found")
	ErrNotOwner       = errors.New("Unauthorized: Only the creator can edit this poll")
	ErrOptionNotFound = errors.New("Option not found")
)

// Issue is a single violated validation constraint.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError enumerates every constraint a payload violated.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].Message
	}
	return fmt.Sprintf("validation failed with %d issues", len(e.Issues))
}

// StoreError wraps a backend failure with the operation that hit it.
// The backend message is passed through verbatim.
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
