// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package authz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quiz-maker/middleware"
	"github.com/danielhkuo/quiz-maker/models"
	"github.com/danielhkuo/quiz-maker/session"
	"github.com/danielhkuo/quiz-maker/store"
)

var ErrUnauthenticated = errors.New("authentication required")

type ctxKey int

const userKey ctxKey = iota

// Guard resolves the acting user from the request's session
type Guard struct {
	creds *store.Credentials
}

func NewGuard(st store.Store) *Guard {
	return &Guard{creds: store.NewCredentials(st)}
}

// RequireUser returns the user bound to the session in ctx. Anonymous
// sessions and sessions whose user has since disappeared both yield
// ErrUnauthenticated.
func (g *Guard) RequireUser(ctx context.Context) (models.User, error) {
	sess := session.FromContext(ctx)
	if !sess.Authenticated() {
		return models.User{}, ErrUnauthenticated
	}

	u, err := g.creds.FindByID(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrUnauthenticated
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// RequireOwnership reports whether u may modify q
func RequireOwnership(u models.User, q models.Quiz) error {
	if q.Owner != u.ID {
		return store.ErrForbidden
	}
	return nil
}

// WithUser rejects unauthenticated requests with 401 and makes the user
// available to next through UserFromContext
func (g *Guard) WithUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := g.RequireUser(r.Context())
		if errors.Is(err, ErrUnauthenticated) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if err != nil {
			slog.Error("failed to resolve session user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to resolve user")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	}
}

// UserFromContext returns the user attached by WithUser
func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}
