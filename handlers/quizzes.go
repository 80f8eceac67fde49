// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quiz-maker/authz"
	"github.com/danielhkuo/quiz-maker/middleware"
	"github.com/danielhkuo/quiz-maker/models"
	"github.com/danielhkuo/quiz-maker/store"
)

type QuizHandler struct {
	quizzes *store.Quizzes
}

func NewQuizHandler(st store.Store) *QuizHandler {
	return &QuizHandler{quizzes: store.NewQuizzes(st)}
}

// actingUser returns the user attached by authz.Guard.WithUser
func actingUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	u, ok := authz.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, authz.ErrUnauthenticated, "resolve user")
	}
	return u, ok
}

// ListQuizzes handles GET /quizzes
func (h *QuizHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.ListQuizzes(r.Context())
	if err != nil {
		writeError(w, r, err, "list quizzes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, quizzes)
}

// GetQuiz handles GET /quizzes/{id}
func (h *QuizHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.FindQuizByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "get quiz")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, quiz)
}

// CreateQuiz handles POST /quizzes. The owner is always the session user.
func (h *QuizHandler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	u, ok := actingUser(w, r)
	if !ok {
		return
	}

	var req models.QuizRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w, err)
		return
	}

	quiz, err := h.quizzes.CreateQuiz(r.Context(), u.ID, req)
	if err != nil {
		writeError(w, r, err, "create quiz")
		return
	}

	slog.Info("quiz created", "quiz_id", quiz.ID, "owner", u.ID, "questions", len(quiz.Questions))
	middleware.JSONResponse(w, http.StatusCreated, quiz)
}

// UpdateQuiz handles PUT /quizzes/{id}
func (h *QuizHandler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	u, ok := actingUser(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	// Report 404/403 before looking at the body of a request for someone else's quiz
	current, err := h.quizzes.FindQuizByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "update quiz")
		return
	}
	if err := authz.RequireOwnership(u, current); err != nil {
		writeError(w, r, err, "update quiz")
		return
	}

	var req models.QuizRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w, err)
		return
	}

	// The store re-checks ownership atomically with the write
	if _, err := h.quizzes.UpdateQuiz(r.Context(), id, u.ID, req); err != nil {
		writeError(w, r, err, "update quiz")
		return
	}

	slog.Info("quiz updated", "quiz_id", id, "owner", u.ID)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteQuiz handles DELETE /quizzes/{id}
func (h *QuizHandler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	u, ok := actingUser(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	if err := h.quizzes.DeleteQuiz(r.Context(), id, u.ID); err != nil {
		writeError(w, r, err, "delete quiz")
		return
	}

	slog.Info("quiz deleted", "quiz_id", id, "owner", u.ID)
	w.WriteHeader(http.StatusNoContent)
}

// AttemptQuiz handles POST /quizzes/{id}/attempts. Attempts are graded
// and returned; nothing is persisted.
func (h *QuizHandler) AttemptQuiz(w http.ResponseWriter, r *http.Request) {
	var req models.AttemptRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w, err)
		return
	}

	quiz, err := h.quizzes.FindQuizByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "grade attempt")
		return
	}

	result, err := GradeAttempt(quiz, req.Answers)
	if err != nil {
		writeError(w, r, err, "grade attempt")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, result)
}
