// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists users, quizzes and sessions.

# Backends

Store is implemented twice:

  - SQLStore: Postgres (lib/pq) or sqlite (modernc) over database/sql
  - BoltStore: an embedded bbolt file holding JSON documents, one bucket
    per collection

Both satisfy the same contract and are exercised by the same tests.

# Services

Handlers do not talk to a Store directly. Two thin services sit on top:

	creds := store.NewCredentials(st)   // registration, password checks
	quizzes := store.NewQuizzes(st)     // validation, owner-scoped writes

Credentials hashes passwords with bcrypt before they reach a backend and
maps a duplicate email to a *models.ValidationError on the "email" field.

# Ownership

UpdateQuiz and DeleteQuiz take the acting user's id and only touch a quiz
whose owner matches. The check and the write happen in one statement (SQL)
or one transaction (bolt), so a concurrent change of ownership cannot slip
in between. When nothing matched:

	ErrNotFound   the id does not exist (or was already deleted)
	ErrForbidden  the quiz exists but belongs to someone else

# Sessions

Sessions are keyed by the HMAC of the cookie token, never the token itself.
DeleteExpiredSessions is called periodically by the session sweeper.
*/
package store
