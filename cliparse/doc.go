// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded before anything else. Values
already present in the environment are not overwritten by it.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Postgres connection string, or file path for sqlite/bolt (required)
  - DatabaseType: sqlite (default), postgres or bolt
  - SessionSecret: HMAC secret for stored session tokens (required)
  - SessionTTL: Idle timeout (default: 24h)
  - SessionMaxLife: Hard session lifetime (default: 720h)
  - SweepInterval: Expired session cleanup period (default: 10m)
  - RequestTimeout: Per-request deadline (default: 10s)
  - SecureCookies: Set the Secure cookie attribute

# CLI Flags

	-p                 Server port
	-d                 Database URL
	-t                 Database type
	--session-secret   Session secret
	--session-ttl      Idle timeout
	--session-max-life Maximum lifetime
	--sweep-interval   Cleanup period
	--request-timeout  Per-request timeout
	--secure-cookies   Secure cookies

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	SESSION_SECRET   → --session-secret
	SESSION_TTL      → --session-ttl
	SESSION_MAX_LIFE → --session-max-life
	SWEEP_INTERVAL   → --sweep-interval
	REQUEST_TIMEOUT  → --request-timeout
	SECURE_COOKIES   → --secure-cookies

CLI flags take precedence over environment variables.
*/
package cliparse
