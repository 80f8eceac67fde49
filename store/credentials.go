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

	"github.com/danielhkuo/quiz-maker/auth"
	"github.com/danielhkuo/quiz-maker/models"
)

// Credentials registers users and checks their passwords
type Credentials struct {
	store Store
	now   func() time.Time
}

func NewCredentials(s Store) *Credentials {
	return &Credentials{store: s, now: time.Now}
}

// CreateUser validates the request, hashes the password and persists the user.
// Missing fields and an already registered email both yield *models.ValidationError.
func (c *Credentials) CreateUser(ctx context.Context, email, name, password string) (models.User, error) {
	req := models.CreateUserRequest{Email: email, Name: name, Password: password}
	if err := req.Validate(); err != nil {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return models.User{}, models.NewValidationError("password", "password must be at most 72 bytes")
	}
	if err != nil {
		return models.User{}, err
	}

	u := models.User{
		ID:           uuid.NewString(),
		Email:        models.NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		CreatedAt:    c.now().UTC(),
	}

	err = c.store.CreateUser(ctx, u)
	if errors.Is(err, ErrDuplicateEmail) {
		return models.User{}, models.NewValidationError("email", "email is already registered")
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

// FindByEmail looks a user up by normalized email
func (c *Credentials) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return c.store.FindUserByEmail(ctx, models.NormalizeEmail(email))
}

func (c *Credentials) FindByID(ctx context.Context, id string) (models.User, error) {
	return c.store.FindUserByID(ctx, id)
}

// VerifyPassword compares against the stored bcrypt hash
func (c *Credentials) VerifyPassword(u models.User, password string) bool {
	return auth.CheckPassword(u.PasswordHash, password)
}

// ListUsers returns every user with the password hash blanked
func (c *Credentials) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}
