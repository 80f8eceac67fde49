// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quiz-maker/middleware"
	"github.com/danielhkuo/quiz-maker/models"
	"github.com/danielhkuo/quiz-maker/session"
)

type SessionHandler struct {
	sessions *session.Manager
}

func NewSessionHandler(mgr *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: mgr}
}

// GetSession handles GET /session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, session.FromContext(r.Context()).State())
}

// Login handles POST /session
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w, err)
		return
	}

	state, err := h.sessions.Login(r.Context(), w, r, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "log in")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, state)
}

// Logout handles DELETE /session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), session.TokenFromContext(r.Context())); err != nil {
		writeError(w, r, err, "log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
