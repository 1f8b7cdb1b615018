// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"

	"github.com/mkarlsen/ballotbox/store"
)

// CheckAuthorization confirms the requester owns the poll. Read-only;
// it must run before any write on the update path. The create path has
// no check: the creator becomes the owner by construction.
func CheckAuthorization(ctx context.Context, st store.Store, pollID, userID string) error {
	row, err := st.SelectSingle(ctx, "polls", store.Filter{"id": pollID})
	if errors.Is(err, store.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return &StoreError{Op: "checking poll", Err: err}
	}

	if row.String("user_id") != userID {
		return ErrNotOwner
	}
	return nil
}
