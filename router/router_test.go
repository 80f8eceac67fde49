// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quiz-maker/models"
	"github.com/danielhkuo/quiz-maker/session"
	"github.com/danielhkuo/quiz-maker/store"
	"github.com/danielhkuo/quiz-maker/testutil"
)

func newTestRouter(t *testing.T) (http.Handler, store.Store) {
	t.Helper()
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	return NewRouter(st, session.NewManager(st, cfg), cfg), st
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
	if testutil.FindCookie(w, testutil.SessionCookieName) != nil {
		t.Error("Health checks should not create sessions")
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "quiz-maker API v1" {
		t.Errorf("Unexpected banner '%s'", w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestRouter(t)

	// 401, 404 and 422 are all valid handler answers here; 405 means no route
	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/users"},
		{"GET", "/users"},
		{"GET", "/session"},
		{"POST", "/session"},
		{"DELETE", "/session"},
		{"GET", "/quizzes"},
		{"POST", "/quizzes"},
		{"GET", "/quizzes/test-id"},
		{"PUT", "/quizzes/test-id"},
		{"DELETE", "/quizzes/test-id"},
		{"POST", "/quizzes/test-id/attempts"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
			if testutil.FindCookie(w, testutil.SessionCookieName) == nil {
				t.Errorf("Route %s %s did not establish a session", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"DELETE", "/users"},
		{"PATCH", "/quizzes/test-id"},
		{"PUT", "/session"},
		{"GET", "/quizzes/test-id/attempts"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestAuthoringRoutesRequireLogin(t *testing.T) {
	mux, st := newTestRouter(t)
	u := testutil.CreateTestUser(t, st, "a@x.com", "A", "p1")
	quiz := testutil.CreateTestQuiz(t, st, u.ID, "Owned")

	testCases := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"POST", "/quizzes", testutil.TestQuizRequest("New")},
		{"PUT", "/quizzes/" + quiz.ID, testutil.TestQuizRequest("Changed")},
		{"DELETE", "/quizzes/" + quiz.ID, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, testutil.MakeRequest(tc.method, tc.path, tc.body, nil))
			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	mux, st := newTestRouter(t)
	u := testutil.CreateTestUser(t, st, "a@x.com", "A", "p1")
	quiz := testutil.CreateTestQuiz(t, st, u.ID, "Path Param")

	req := httptest.NewRequest("GET", "/quizzes/"+quiz.ID, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var got models.Quiz
	testutil.AssertJSON(t, w, &got)
	if got.ID != quiz.ID {
		t.Errorf("Expected quiz %s, got %s", quiz.ID, got.ID)
	}
}

func TestCORSApplied(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/quizzes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected preflight 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("Expected CORS headers on preflight")
	}
}
