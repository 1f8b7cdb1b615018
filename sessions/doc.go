// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package sessions owns the session lifecycle: sign-up, sign-in,
validation, refresh, listing, revocation and timeout configuration.

# Token Model

A session token is an opaque 192-bit random value handed to the client
once at sign-in. The database stores only its SHA-256 digest, so
sessions can be revoked server-side and a database leak exposes no
usable credentials.

The token is an explicit capability: every operation takes it as an
argument and checks expiry synchronously before use. There is no
ambient session state and no background refresh loop — extending a
session is the caller's job, via Refresh.

# Expiry

Each user carries a configurable timeout (default 60 minutes, bounds
5 minutes to 7 days). Sign-in and Refresh compute expires_at from it;
Validate rejects and removes sessions past their expiry. Changing the
timeout affects future sign-ins and refreshes only.

# Listing

List returns each session's timestamps, user agent, salted IP hash and
whether it is the session making the call, with a humanized
last-active string for display.
*/
package sessions
