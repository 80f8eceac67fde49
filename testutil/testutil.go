// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quiz-maker/auth"
	"github.com/danielhkuo/quiz-maker/cliparse"
	"github.com/danielhkuo/quiz-maker/db"
	"github.com/danielhkuo/quiz-maker/models"
	"github.com/danielhkuo/quiz-maker/store"
)

// SessionCookieName mirrors the cookie set by the session manager
const SessionCookieName = "quiz_session"

// TestDBURL returns a private in-memory sqlite database URL
func TestDBURL(t *testing.T) string {
	t.Helper()
	name, err := auth.GenerateID(8)
	if err != nil {
		t.Fatalf("Failed to name test database: %v", err)
	}
	return "file:test-" + name + "?mode=memory&cache=shared"
}

// SetupTestDB opens a fresh in-memory sqlite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := GetTestConfig()
	cfg.DatabaseURL = TestDBURL(t)

	conn, err := db.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// SetupTestStore returns a SQL store over a fresh in-memory database
func SetupTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	return store.NewSQLStore(SetupTestDB(t))
}

// SetupBoltStore returns a bolt store in a temp directory
func SetupBoltStore(t *testing.T) *store.BoltStore {
	t.Helper()

	st, err := store.OpenBolt(filepath.Join(t.TempDir(), "quiz.bolt"))
	if err != nil {
		t.Fatalf("Failed to open bolt store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    "file:test?mode=memory&cache=shared",
		DatabaseType:   cliparse.DatabaseSQLite,
		SessionSecret:  "test-session-secret",
		SessionTTL:     time.Hour,
		SessionMaxLife: 24 * time.Hour,
		SweepInterval:  time.Minute,
		RequestTimeout: 5 * time.Second,
	}
}

// CreateTestUser registers a user directly in the store
func CreateTestUser(t *testing.T, st store.Store, email, name, password string) models.User {
	t.Helper()

	u, err := store.NewCredentials(st).CreateUser(context.Background(), email, name, password)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// TestQuizRequest returns a valid two-question quiz body
func TestQuizRequest(title string) models.QuizRequest {
	return models.QuizRequest{
		Title:       title,
		Description: "A test quiz",
		Questions: []models.Question{
			{
				QuestionText: "2 + 2?",
				PossibleChoices: []models.Answer{
					{AnswerText: "3"},
					{AnswerText: "4", IsCorrect: true},
				},
			},
			{
				QuestionText: "Capital of France?",
				PossibleChoices: []models.Answer{
					{AnswerText: "Paris", IsCorrect: true},
					{AnswerText: "Lyon"},
					{AnswerText: "Nice"},
				},
			},
		},
	}
}

// CreateTestQuiz stores a quiz owned by owner and returns it
func CreateTestQuiz(t *testing.T, st store.Store, owner, title string) models.Quiz {
	t.Helper()

	q, err := store.NewQuizzes(st).CreateQuiz(context.Background(), owner, TestQuizRequest(title))
	if err != nil {
		t.Fatalf("Failed to create test quiz: %v", err)
	}
	return q
}

// Login posts credentials to /session on h and returns the session cookie
func Login(t *testing.T, h http.Handler, email, password string) *http.Cookie {
	t.Helper()

	req := MakeRequest("POST", "/session", models.LoginRequest{Email: email, Password: password}, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Login as %s failed: %d - %s", email, w.Code, w.Body.String())
	}

	cookie := FindCookie(w, SessionCookieName)
	if cookie == nil {
		t.Fatalf("Login as %s set no session cookie", email)
	}
	return cookie
}

// FindCookie returns the last cookie named name set on a recorded response, or nil.
// The last one wins, as in a browser.
func FindCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// WithCookie attaches a cookie to the request and returns it
func WithCookie(req *http.Request, c *http.Cookie) *http.Request {
	if c != nil {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
