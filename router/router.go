// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/mkarlsen/ballotbox/cache"
	"github.com/mkarlsen/ballotbox/cliparse"
	"github.com/mkarlsen/ballotbox/handlers"
	"github.com/mkarlsen/ballotbox/middleware"
	"github.com/mkarlsen/ballotbox/polls"
	"github.com/mkarlsen/ballotbox/sessions"
	"github.com/mkarlsen/ballotbox/store"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Wire services
	st := store.NewSQL(db)
	views := cache.New()
	pollService := polls.NewService(st, views)
	sessionService := sessions.NewService(st, cfg.SessionTimeoutMinutes, cfg.IPHashSalt)

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(pollService)
	readHandler := handlers.NewReadHandler(pollService, views)
	voteHandler := handlers.NewVoteHandler(pollService)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	guard := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireSession(sessionService.Validate, next)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts and sessions
	mux.HandleFunc("POST /auth/sign-up", middleware.WithLogging(sessionHandler.SignUp))
	mux.HandleFunc("POST /auth/sign-in", middleware.WithLogging(sessionHandler.SignIn))
	mux.HandleFunc("POST /auth/sign-out", middleware.WithLogging(sessionHandler.SignOut))
	mux.HandleFunc("GET /sessions", middleware.WithLogging(sessionHandler.ListSessions))
	mux.HandleFunc("DELETE /sessions/{id}", middleware.WithLogging(sessionHandler.RevokeSession))
	mux.HandleFunc("POST /sessions/revoke-others", middleware.WithLogging(sessionHandler.RevokeOtherSessions))
	mux.HandleFunc("POST /sessions/refresh", middleware.WithLogging(sessionHandler.RefreshSession))
	mux.HandleFunc("PUT /settings/session-timeout", middleware.WithLogging(sessionHandler.SetSessionTimeout))

	// Poll mutations (session required)
	mux.HandleFunc("POST /polls", middleware.WithLogging(guard(pollHandler.CreatePoll)))
	mux.HandleFunc("PUT /polls/{id}", middleware.WithLogging(guard(pollHandler.UpdatePoll)))

	// Poll reads (public, cached)
	mux.HandleFunc("GET /polls", middleware.WithLogging(readHandler.ListPolls))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(readHandler.GetPoll))

	// Voting (public)
	mux.HandleFunc("POST /options/{id}/vote", middleware.WithLogging(voteHandler.Vote))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox API v1"))
	})

	return mux
}
