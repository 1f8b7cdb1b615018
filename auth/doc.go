// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and credential hashing.

# Session Tokens

GenerateSessionToken returns a 192-bit random token, URL-safe base64
without padding. The database stores only HashSessionToken(token)
(hex SHA-256); the raw token exists client-side only.

# Passwords

HashPassword / CheckPassword wrap bcrypt at the default cost.

# IP Hashing

HashIP produces a salted, truncated HMAC of the client IP for session
listings, so raw addresses are never persisted.
*/
package auth
