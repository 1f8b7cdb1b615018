// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema

CreateSchema creates all tables using IF NOT EXISTS (idempotent):

	if err := db.CreateSchema(dbConn); err != nil {
		log.Fatal(err)
	}

# Tables

  - polls: id, title, description, user_id, created_at, updated_at
  - options: id, poll_id, value, votes, created_at
  - users: id, email, password_hash, session_timeout_minutes, created_at
  - sessions: id, user_id, token_hash, user_agent, ip_hash,
    created_at, last_active_at, expires_at

# Relationships

	polls 1──* options       (CASCADE delete)
	users 1──* sessions      (CASCADE delete)
	users 1──* polls         (by user_id, no FK so accounts can be
	                          provisioned out of band)

# Indexes

  - polls.user_id
  - options.poll_id
  - users.email (unique)
  - sessions.user_id, sessions.token_hash (unique)

The DDL works unchanged on both supported drivers (lib/pq and
modernc.org/sqlite); all timestamps are written by the application.
*/
package db
