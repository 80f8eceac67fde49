// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package authz decides who may act on what.

Reading quizzes is open to everyone. Creating one needs a signed-in user;
updating or deleting one needs the user who created it.

	guard := authz.NewGuard(st)
	mux.HandleFunc("POST /quizzes", guard.WithUser(h.CreateQuiz))

A session that still names a user who no longer exists is treated the same
as an anonymous one.
*/
package authz
