// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ballotbox API.

# Handler Types

Each handler is a struct built on the service it fronts:

  - PollHandler: poll creation and editing (mutations)
  - ReadHandler: poll listing and detail, served through the view cache
  - VoteHandler: vote increments
  - SessionHandler: accounts and session lifecycle

# Poll Mutations

Mutation endpoints require a session (Authorization: Bearer <token>)
and respond with the discriminated result shape:

	POST /polls      → {"success":true,"data":{"pollId":"…"}}
	PUT  /polls/{id} → {"success":false,"error":"Unauthorized: Only the creator can edit this poll"}

Validation failures carry the full issue list in the error field.

# Reads

	GET /polls       → poll listing with options and vote totals
	GET /polls/{id}  → one poll

Both are public and cached by path; successful mutations invalidate
the affected paths so the next read re-renders.

# Voting

	POST /options/{id}/vote

Anonymous, no dedup: each call increments the option's count by one.

# Sessions

	POST /auth/sign-up, /auth/sign-in, /auth/sign-out
	GET  /sessions
	DELETE /sessions/{id}
	POST /sessions/revoke-others, /sessions/refresh
	PUT  /settings/session-timeout

Session endpoints authenticate from the bearer token directly and use
the plain error envelope rather than the mutation result shape.
*/
package handlers
