// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/danielhkuo/quiz-maker/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("not the owner")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store is the persistence boundary. Every method is atomic on its own;
// callers never need a find-then-write sequence to stay consistent.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u models.User) error
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// Quizzes
	CreateQuiz(ctx context.Context, q models.Quiz) error
	FindQuiz(ctx context.Context, id string) (models.Quiz, error)
	ListQuizzes(ctx context.Context) ([]models.Quiz, error)
	// UpdateQuiz replaces title, description and questions of the quiz
	// matching both q.ID and q.Owner. Returns ErrNotFound when the id does not
	// exist and ErrForbidden when it belongs to someone else.
	UpdateQuiz(ctx context.Context, q models.Quiz) (models.Quiz, error)
	// DeleteQuiz removes the quiz matching both id and owner, with the same
	// error contract as UpdateQuiz.
	DeleteQuiz(ctx context.Context, id, owner string) error

	// Sessions, keyed by token hash
	CreateSession(ctx context.Context, s models.Session) error
	FindSession(ctx context.Context, tokenHash string) (models.Session, error)
	TouchSession(ctx context.Context, tokenHash string, expiresAt time.Time) error
	// BindSession sets the user of a session; empty userID makes it anonymous again
	BindSession(ctx context.Context, tokenHash, userID, name string) error
	DeleteSession(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	Close() error
}
