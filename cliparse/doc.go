// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - IPHashSalt: Secret for session IP hashing (required)
  - SessionTimeoutMinutes: Default session lifetime (default: 60)

# CLI Flags

	-p                 Server port
	-d                 Database URL
	-t                 Database type
	--ip-salt          IP hash salt
	--session-timeout  Default session timeout in minutes

# Environment Variables

Flags fall back to environment variables:

	PORT                    → -p
	DATABASE_URL            → -d
	DATABASE_TYPE           → -t
	IP_HASH_SALT            → --ip-salt
	SESSION_TIMEOUT_MINUTES → --session-timeout

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - IP_HASH_SALT must be provided
  - DATABASE_TYPE must be sqlite or postgres
*/
package cliparse
