// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens SQL connections and creates the schema.

# Connecting

Connect picks the driver from the configured database type:

	conn, err := db.Connect(ctx, cfg)  // "postgres" (lib/pq) or "sqlite" (modernc)

sqlite connections are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables for the given dialect:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: registered accounts, email unique
  - quizzes: quiz metadata plus the ordered questions as one JSON document
    (JSONB on Postgres, TEXT on sqlite)
  - sessions: server-side sessions keyed by the HMAC of the cookie token

# Relationships

	users 1──* quizzes (owner_id)
	users 1──* sessions (user_id, nullable, not enforced: stale sessions are
	           rejected at request time)
*/
package db
