// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the quiz-maker API.

# Handler Types

Each handler is a struct built from a store (or the session manager):

  - UserHandler: registration and user listing
  - SessionHandler: session state, login and logout
  - QuizHandler: quiz CRUD and attempts

Construct them with their New functions:

	quizHandler := handlers.NewQuizHandler(st)

Authoring routes expect authz.Guard.WithUser in front of them; the handler
reads the acting user from the request context and never from the body.

# Errors

Service errors are mapped in one place (writeError):

	*models.ValidationError          422 with per-field messages
	session.ErrAuthFailure           401
	authz.ErrUnauthenticated         401
	store.ErrForbidden               403
	store.ErrNotFound                404
	anything else                    500, logged

A body that is not valid JSON is also a 422.

# Grading

GradeAttempt is a pure function over a quiz and a list of choice indexes:

	result, err := GradeAttempt(quiz, []int{1, 0, -1})

A question scores when the chosen answer is marked correct. Negative or
missing indexes are unanswered. Attempts are not stored.
*/
package handlers
