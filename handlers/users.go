// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quiz-maker/middleware"
	"github.com/danielhkuo/quiz-maker/models"
	"github.com/danielhkuo/quiz-maker/store"
)

type UserHandler struct {
	creds *store.Credentials
}

func NewUserHandler(st store.Store) *UserHandler {
	return &UserHandler{creds: store.NewCredentials(st)}
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w, err)
		return
	}

	u, err := h.creds.CreateUser(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeError(w, r, err, "create user")
		return
	}

	slog.Info("user registered", "user_id", u.ID)

	// PasswordHash is never serialized
	middleware.JSONResponse(w, http.StatusCreated, u)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.creds.ListUsers(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		middleware.ErrorResponse(w, http.StatusNotFound, "Users not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, users)
}
