// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and request/response
helpers.

# Middleware

  - WithLogging: request/completion logging with duration
  - CORS: cross-origin headers and preflight handling
  - RequireSession: bearer-token session guard that injects the user
    id into the request context

# Helpers

  - JSONResponse / ErrorResponse: JSON encoding with status
  - ParseJSONBody: request body decoding
  - GetClientIP: client address behind proxies
  - BearerToken / UserID / WithUserID: credential plumbing

RequireSession deliberately lets credential-less requests through with
an empty user id: the mutation service owns the "must be
authenticated" failure and its exact message, so the guard only
rejects tokens that are present but invalid.
*/
package middleware
