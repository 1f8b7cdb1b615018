// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls implements the poll mutation core: validation,
authorization, option-set reconciliation and the orchestrating service.

# Mutation Flow

Both entry points run the same fixed pipeline:

	CreatePoll: user check → Validate → insert poll → insert options → invalidate /polls
	UpdatePoll: user check → Validate → CheckAuthorization → update poll
	            → fetch options → Reconcile → apply plan → invalidate /polls, /polls/{id}

Each stage either advances or fails terminally; there are no retries
and no compensating writes. A failure after the poll row was written
leaves that write in place — consistency rests on the store's
per-statement durability, and callers must treat a failed update as
possibly partially applied.

# Reconciliation

Reconcile diffs the persisted option set against the submitted one by
id, producing disjoint update/delete/insert plans. See its
documentation for the pairing and tie-break rules.

# Errors

Failures carry their user-facing message: sentinel errors for the
missing-user, not-found and not-owner cases, ValidationError with the
full issue list, and StoreError wrapping the backend message verbatim
("Error updating poll: ...").

Fail converts any of these into the discriminated Result shape at the
public boundary; StatusOf picks the HTTP status. Handlers never see a
panic out of this package.
*/
package polls
