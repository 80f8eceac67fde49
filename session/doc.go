// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session manages server-side sessions carried by a cookie.

# Cookie

The quiz_session cookie holds a random 32-byte token (base64url). The store
only ever sees HMAC-SHA256(secret, token), so a dump of the sessions table
cannot be turned back into working cookies. The cookie is HttpOnly,
SameSite=Lax, Path=/ and optionally Secure.

# Lifecycle

	first request      -> anonymous session created, cookie set
	POST /session      -> credentials checked, new token issued, old one deleted
	DELETE /session    -> user unbound, token kept as anonymous
	idle > ttl         -> session treated as missing, replaced on next request
	age > max life     -> same, regardless of activity

Every request through Middleware slides the idle expiry forward, capped at
createdAt + max life. Writes are skipped when the expiry would move by less
than a minute.

# Usage

	mgr := session.NewManager(st, cfg)
	handler := mgr.Middleware(mux)

	go mgr.RunSweeper(ctx, cfg.SweepInterval)

Handlers read the caller's session with FromContext. Identity comes from the
cookie alone; request bodies and headers are never consulted.

# Login failures

Login returns ErrAuthFailure for an unknown email and for a wrong password.
Both paths run one bcrypt comparison so response times do not reveal which
emails are registered.
*/
package session
