// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes using Go 1.22+ method and
pattern routing.

NewRouter wires the store, view cache and services, builds the
handlers and registers all routes on a ServeMux:

	mux := router.NewRouter(db, cfg)

Poll mutation routes are wrapped in the session guard; reads and
voting are public. Every route is wrapped with request logging.
*/
package router
