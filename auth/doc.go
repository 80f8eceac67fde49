// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and token generation utilities.

# Passwords

Passwords are hashed with bcrypt, which salts each hash:

	hash, err := auth.HashPassword("p1")
	ok := auth.CheckPassword(hash, "p1")

bcrypt ignores input past 72 bytes, so longer passwords are rejected with
ErrPasswordTooLong instead of being silently truncated.

When a login names an unknown email, BurnPasswordCheck runs a comparison
against a fixed hash so the response time matches a wrong password.

# Session Tokens

Session tokens are random 32-byte (256-bit) secrets, URL-safe base64 encoded:

	token, err := auth.GenerateSessionToken()

The cookie carries the token; the store only ever sees its HMAC-SHA256 under
the server's session secret:

	key := auth.HashSessionToken(token, secret)

# ID Generation

Random hex IDs:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

Sessions record a privacy-preserving hash of the client address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
