// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/quiz-maker/authz"
	"github.com/danielhkuo/quiz-maker/middleware"
	"github.com/danielhkuo/quiz-maker/session"
	"github.com/danielhkuo/quiz-maker/store"
	"github.com/danielhkuo/quiz-maker/testutil"
)

// testServer mounts every handler behind the session middleware the way the
// router does, so tests exercise cookies end to end
type testServer struct {
	handler http.Handler
	store   store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithStore(t, testutil.SetupTestStore(t))
}

func newTestServerWithStore(t *testing.T, st store.Store) *testServer {
	t.Helper()
	cfg := testutil.GetTestConfig()
	mgr := session.NewManager(st, cfg)
	guard := authz.NewGuard(st)

	users := NewUserHandler(st)
	sessions := NewSessionHandler(mgr)
	quizzes := NewQuizHandler(st)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users", users.CreateUser)
	mux.HandleFunc("GET /users", users.ListUsers)
	mux.HandleFunc("GET /session", sessions.GetSession)
	mux.HandleFunc("POST /session", sessions.Login)
	mux.HandleFunc("DELETE /session", sessions.Logout)
	mux.HandleFunc("GET /quizzes", quizzes.ListQuizzes)
	mux.HandleFunc("GET /quizzes/{id}", quizzes.GetQuiz)
	mux.HandleFunc("POST /quizzes/{id}/attempts", quizzes.AttemptQuiz)
	mux.HandleFunc("POST /quizzes", guard.WithUser(quizzes.CreateQuiz))
	mux.HandleFunc("PUT /quizzes/{id}", guard.WithUser(quizzes.UpdateQuiz))
	mux.HandleFunc("DELETE /quizzes/{id}", guard.WithUser(quizzes.DeleteQuiz))

	return &testServer{
		handler: middleware.WithTimeout(cfg.RequestTimeout)(mgr.Middleware(mux)),
		store:   st,
	}
}

// do sends one request, optionally with a session cookie
func (s *testServer) do(method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := testutil.WithCookie(testutil.MakeRequest(method, path, body, nil), cookie)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

// doRaw sends a request with a literal body
func (s *testServer) doRaw(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	testutil.WithCookie(req, cookie)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

// signup registers a user through the store and logs them in over HTTP
func (s *testServer) signup(t *testing.T, email, name string) *http.Cookie {
	t.Helper()
	testutil.CreateTestUser(t, s.store, email, name, "p1")
	return testutil.Login(t, s.handler, email, "p1")
}
