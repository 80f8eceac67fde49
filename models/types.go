// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// QuizRequest is the body of POST /quizzes and PUT /quizzes/{id}.
// PUT replaces title, description and questions wholesale.
type QuizRequest struct {
	Title       string     `json:"title" validate:"required,notblank"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions" validate:"dive"`
}

// AttemptRequest holds one chosen answer index per question.
// A negative index (or a missing trailing entry) means unanswered.
type AttemptRequest struct {
	Answers []int `json:"answers"`
}

// Response types

type SessionState struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
	Name          string `json:"name,omitempty"`
}

type QuestionResult struct {
	QuestionIndex int  `json:"questionIndex"`
	Chosen        int  `json:"chosen"`
	Correct       bool `json:"correct"`
}

type AttemptResponse struct {
	QuizID  string           `json:"quizId"`
	Score   int              `json:"score"`
	Total   int              `json:"total"`
	Results []QuestionResult `json:"results"`
}

// Domain types

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is the server-side record behind a session cookie.
// TokenHash is the HMAC of the cookie value; the raw token is never stored.
type Session struct {
	TokenHash string    `json:"-"`
	UserID    string    `json:"userId,omitempty"`
	Name      string    `json:"name,omitempty"`
	IPHash    string    `json:"-"`
	UserAgent string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// State returns the client-facing view of the session
func (s *Session) State() SessionState {
	if !s.Authenticated() {
		return SessionState{}
	}
	return SessionState{Authenticated: true, UserID: s.UserID, Name: s.Name}
}

type Answer struct {
	AnswerText string `json:"answerText" validate:"required,notblank"`
	IsCorrect  bool   `json:"isCorrect"`
}

type Question struct {
	QuestionText    string   `json:"questionText" validate:"required,notblank"`
	PossibleChoices []Answer `json:"possibleChoices" validate:"min=1,onecorrect,dive"`
}

type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	Owner       string     `json:"owner"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Error response

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
