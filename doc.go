// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the quiz-maker API server.

quiz-maker lets people register, sign in with a cookie session, author
multiple-choice quizzes and take anyone's quiz for a score.

# Starting the Server

The server reads flags, falling back to environment variables (a .env file
in the working directory is loaded first):

	DATABASE_URL=quiz.db SESSION_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -session-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file/DSN, Postgres URL or bbolt file path
  - SESSION_SECRET (-session-secret): HMAC key for session tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default), postgres or bolt
  - SESSION_TTL (-session-ttl): idle lifetime of a session (default: 24h)
  - SESSION_MAX_LIFE (-session-max-life): absolute lifetime (default: 720h)
  - SWEEP_INTERVAL (-sweep-interval): expired session cleanup (default: 10m)
  - REQUEST_TIMEOUT (-request-timeout): per-request deadline (default: 10s)
  - SECURE_COOKIES (-secure-cookies): mark the session cookie Secure

# Architecture

  - handlers: HTTP request handlers (users, session, quizzes, grading)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, timeouts, JSON helpers
  - session: cookie sessions, login/logout, expiry sweeper
  - authz: signed-in and ownership checks
  - store: SQL and bbolt persistence plus credential and quiz services
  - models: Request/response types and validation
  - auth: password hashing, tokens, HMACs
  - db: connections and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
