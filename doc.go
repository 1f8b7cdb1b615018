// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotbox API server.

Ballotbox is a polling service: authenticated users create polls with
a title, optional description and at least two options, anyone can
vote, and creators can edit the option set later without losing
accumulated votes.

# Starting the Server

The server reads configuration from a .env file, environment
variables or CLI flags:

	DATABASE_URL=polls.db IP_HASH_SALT=secret go run .

Or with flags:

	go run . -p 3318 -d polls.db -t sqlite --ip-salt secret

# Configuration

Required settings:

  - DATABASE_URL (-d): database location
  - IP_HASH_SALT (--ip-salt): secret for hashing session IPs

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SESSION_TIMEOUT_MINUTES (--session-timeout): default session
    lifetime (default: 60)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - polls: validation, authorization, option reconciliation and the
    mutation orchestrator
  - store: the CRUD data-store capability the services run against
  - sessions: account and session lifecycle
  - cache: path-keyed view cache fed by the invalidation signal
  - handlers: HTTP request handlers
  - router: route definitions using Go 1.22+ routing
  - middleware: logging, CORS, JSON helpers, session guard
  - auth: token generation and credential hashing
  - models: request/response types
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
