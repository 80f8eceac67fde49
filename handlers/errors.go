// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quiz-maker/authz"
	"github.com/danielhkuo/quiz-maker/middleware"
	"github.com/danielhkuo/quiz-maker/models"
	"github.com/danielhkuo/quiz-maker/session"
	"github.com/danielhkuo/quiz-maker/store"
)

// writeError maps a service error onto the status taxonomy of the API.
// Anything unrecognized is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		middleware.ValidationResponse(w, verr)
	case errors.Is(err, session.ErrAuthFailure):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, authz.ErrUnauthenticated):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, store.ErrForbidden):
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the owner can modify this quiz")
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Quiz not found")
	default:
		slog.Error("failed to "+action,
			"error", err,
			"request_id", middleware.RequestID(r.Context()),
		)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// invalidJSON reports an unparseable body as a validation failure
func invalidJSON(w http.ResponseWriter, err error) {
	msg := "Invalid JSON"
	if errors.Is(err, middleware.ErrEmptyBody) {
		msg = "Request body is required"
	}
	middleware.ErrorResponse(w, http.StatusUnprocessableEntity, msg)
}
