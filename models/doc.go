// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models contains request and response types for the HTTP API.

Poll payloads and the discriminated mutation result live in the polls
package next to the logic that produces them; this package holds the
wire types for the session and account endpoints plus the generic
error envelope.
*/
package models
