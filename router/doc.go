// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires handlers to routes.

# Routes

	GET    /health                   liveness, no session
	GET    /                         banner, no session

	POST   /users                    register
	GET    /users                    list users

	GET    /session                  current session state
	POST   /session                  log in (rotates the cookie)
	DELETE /session                  log out

	GET    /quizzes                  list quizzes
	GET    /quizzes/{id}             one quiz
	POST   /quizzes/{id}/attempts    grade answers, nothing stored
	POST   /quizzes                  create (signed in)
	PUT    /quizzes/{id}             replace (owner only)
	DELETE /quizzes/{id}             delete (owner only)

# Layers

From the outside in: CORS, request timeout, then for everything except
/health and the banner the session middleware. Each route is wrapped with
WithLogging; authoring routes additionally go through authz.Guard.WithUser.

	sessions := session.NewManager(st, cfg)
	handler := router.NewRouter(st, sessions, cfg)
*/
package router
