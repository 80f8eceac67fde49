// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateUserRequest: email, name, password
  - LoginRequest: email, password
  - QuizRequest: title, description, questions
  - AttemptRequest: answers (one choice index per question)

# Response Types

  - SessionState: authenticated, userId, name
  - AttemptResponse: quizId, score, total, results
  - ErrorResponse: error, message, fields

# Domain Types

  - User: registered account (PasswordHash is never serialized)
  - Session: server-side session record behind the cookie
  - Quiz: owned quiz with ordered questions
  - Question: questionText and ordered possibleChoices
  - Answer: answerText and isCorrect

# Validation

Request types carry go-playground/validator tags. Validate runs them and
converts failures into *ValidationError, keyed by JSON field path:

	if err := req.Validate(); err != nil {
		var verr *models.ValidationError
		errors.As(err, &verr) // verr.Fields["title"] == "title is required"
	}

Keys for nested fields look like "questions[1].possibleChoices[0].answerText".
A question without any correct choice is rejected, since it could never be
scored.
*/
package models
