// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quiz-maker/models"
)

// Quizzes validates quiz bodies and applies owner-scoped writes
type Quizzes struct {
	store Store
	now   func() time.Time
}

func NewQuizzes(s Store) *Quizzes {
	return &Quizzes{store: s, now: time.Now}
}

func questionsOrEmpty(qs []models.Question) []models.Question {
	if qs == nil {
		return []models.Question{}
	}
	return qs
}

// CreateQuiz persists a new quiz owned by owner, which must be a resolved user id
func (q *Quizzes) CreateQuiz(ctx context.Context, owner string, req models.QuizRequest) (models.Quiz, error) {
	if owner == "" {
		return models.Quiz{}, errors.New("create quiz: owner is required")
	}
	if err := req.Validate(); err != nil {
		return models.Quiz{}, err
	}

	now := q.now().UTC()
	quiz := models.Quiz{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Questions:   questionsOrEmpty(req.Questions),
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := q.store.CreateQuiz(ctx, quiz); err != nil {
		return models.Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

func (q *Quizzes) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	return q.store.ListQuizzes(ctx)
}

func (q *Quizzes) FindQuizByID(ctx context.Context, id string) (models.Quiz, error) {
	return q.store.FindQuiz(ctx, id)
}

// UpdateQuiz replaces title, description and questions of a quiz owned by owner.
// Validation runs first; the write itself is a single conditional store call.
func (q *Quizzes) UpdateQuiz(ctx context.Context, id, owner string, req models.QuizRequest) (models.Quiz, error) {
	if err := req.Validate(); err != nil {
		return models.Quiz{}, err
	}

	return q.store.UpdateQuiz(ctx, models.Quiz{
		ID:          id,
		Owner:       owner,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Questions:   questionsOrEmpty(req.Questions),
		UpdatedAt:   q.now().UTC(),
	})
}

// DeleteQuiz removes a quiz owned by owner. Deleting it again yields ErrNotFound.
func (q *Quizzes) DeleteQuiz(ctx context.Context, id, owner string) error {
	return q.store.DeleteQuiz(ctx, id, owner)
}
