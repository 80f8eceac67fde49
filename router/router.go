// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quiz-maker/authz"
	"github.com/danielhkuo/quiz-maker/cliparse"
	"github.com/danielhkuo/quiz-maker/handlers"
	"github.com/danielhkuo/quiz-maker/middleware"
	"github.com/danielhkuo/quiz-maker/session"
	"github.com/danielhkuo/quiz-maker/store"
)

func NewRouter(st store.Store, sessions *session.Manager, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()
	api := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(st)
	sessionHandler := handlers.NewSessionHandler(sessions)
	quizHandler := handlers.NewQuizHandler(st)
	guard := authz.NewGuard(st)

	// Health check and banner skip the session layer
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quiz-maker API v1"))
	})

	// Users
	api.HandleFunc("POST /users", middleware.WithLogging(userHandler.CreateUser))
	api.HandleFunc("GET /users", middleware.WithLogging(userHandler.ListUsers))

	// Session
	api.HandleFunc("GET /session", middleware.WithLogging(sessionHandler.GetSession))
	api.HandleFunc("POST /session", middleware.WithLogging(sessionHandler.Login))
	api.HandleFunc("DELETE /session", middleware.WithLogging(sessionHandler.Logout))

	// Quizzes (reads and attempts are public)
	api.HandleFunc("GET /quizzes", middleware.WithLogging(quizHandler.ListQuizzes))
	api.HandleFunc("GET /quizzes/{id}", middleware.WithLogging(quizHandler.GetQuiz))
	api.HandleFunc("POST /quizzes/{id}/attempts", middleware.WithLogging(quizHandler.AttemptQuiz))

	// Quiz authoring
	api.HandleFunc("POST /quizzes", middleware.WithLogging(guard.WithUser(quizHandler.CreateQuiz)))
	api.HandleFunc("PUT /quizzes/{id}", middleware.WithLogging(guard.WithUser(quizHandler.UpdateQuiz)))
	api.HandleFunc("DELETE /quizzes/{id}", middleware.WithLogging(guard.WithUser(quizHandler.DeleteQuiz)))

	mux.Handle("/", sessions.Middleware(api))

	return middleware.CORS(middleware.WithTimeout(cfg.RequestTimeout)(mux))
}
