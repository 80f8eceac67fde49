// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quiz-maker/auth"
	"github.com/danielhkuo/quiz-maker/cliparse"
	"github.com/danielhkuo/quiz-maker/middleware"
	"github.com/danielhkuo/quiz-maker/models"
	"github.com/danielhkuo/quiz-maker/store"
)

// CookieName carries the raw session token
const CookieName = "quiz_session"

// touchThreshold limits expiry writes to at most one per minute per session
const touchThreshold = time.Minute

// ErrAuthFailure is returned for an unknown email and a wrong password alike
var ErrAuthFailure = errors.New("invalid email or password")

type ctxKey int

const currentKey ctxKey = iota

// current is what Middleware stores in the request context
type current struct {
	sess  models.Session
	token string
}

// Manager issues, resolves and expires server-side sessions
type Manager struct {
	store   store.Store
	creds   *store.Credentials
	secret  string
	ttl     time.Duration
	maxLife time.Duration
	secure  bool
	now     func() time.Time
}

func NewManager(st store.Store, cfg cliparse.Config) *Manager {
	return &Manager{
		store:   st,
		creds:   store.NewCredentials(st),
		secret:  cfg.SessionSecret,
		ttl:     cfg.SessionTTL,
		maxLife: cfg.SessionMaxLife,
		secure:  cfg.SecureCookies,
		now:     time.Now,
	}
}

// expiry slides by ttl but never past createdAt+maxLife
func (m *Manager) expiry(createdAt, now time.Time) time.Time {
	exp := now.Add(m.ttl)
	if limit := createdAt.Add(m.maxLife); exp.After(limit) {
		return limit
	}
	return exp
}

// lookup returns the live session behind token, or ErrNotFound when the
// token is malformed, unknown or expired
func (m *Manager) lookup(ctx context.Context, token string) (models.Session, error) {
	if auth.ValidateSessionToken(token) != nil {
		return models.Session{}, store.ErrNotFound
	}

	sess, err := m.store.FindSession(ctx, auth.HashSessionToken(token, m.secret))
	if err != nil {
		return models.Session{}, err
	}
	if !m.now().Before(sess.ExpiresAt) {
		return models.Session{}, store.ErrNotFound
	}
	return sess, nil
}

// Resolve reports what a token currently stands for. Unknown or expired
// tokens resolve to an anonymous state rather than an error.
func (m *Manager) Resolve(ctx context.Context, token string) (models.SessionState, error) {
	sess, err := m.lookup(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return models.SessionState{}, nil
	}
	if err != nil {
		return models.SessionState{}, err
	}
	return sess.State(), nil
}

// issue creates a fresh session, persists its hash and sets the cookie
func (m *Manager) issue(ctx context.Context, w http.ResponseWriter, r *http.Request, userID, name string) (current, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return current{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := m.now()
	sess := models.Session{
		TokenHash: auth.HashSessionToken(token, m.secret),
		UserID:    userID,
		Name:      name,
		IPHash:    auth.HashIP(middleware.GetClientIP(r), m.secret),
		UserAgent: r.UserAgent(),
		CreatedAt: now,
		ExpiresAt: m.expiry(now, now),
	}
	if err := m.store.CreateSession(ctx, sess); err != nil {
		return current{}, fmt.Errorf("failed to create session: %w", err)
	}

	m.setCookie(w, token, now)
	return current{sess: sess, token: token}, nil
}

// setCookie lets the browser keep the token for the session's whole max life;
// idle expiry is enforced server-side
func (m *Manager) setCookie(w http.ResponseWriter, token string, now time.Time) {
	expires := now.Add(m.maxLife)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(m.maxLife.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// load resolves the request cookie, creating an anonymous session when
// there is none or it is no longer valid
func (m *Manager) load(w http.ResponseWriter, r *http.Request) (current, error) {
	ctx := r.Context()

	if c, err := r.Cookie(CookieName); err == nil {
		sess, err := m.lookup(ctx, c.Value)
		switch {
		case err == nil:
			if exp := m.expiry(sess.CreatedAt, m.now()); exp.Sub(sess.ExpiresAt) > touchThreshold {
				if err := m.store.TouchSession(ctx, sess.TokenHash, exp); err != nil && !errors.Is(err, store.ErrNotFound) {
					return current{}, err
				}
				sess.ExpiresAt = exp
			}
			return current{sess: sess, token: c.Value}, nil
		case !errors.Is(err, store.ErrNotFound):
			return current{}, err
		}
	}

	return m.issue(ctx, w, r, "", "")
}

// Middleware attaches the caller's session to the request context.
// The cookie is the only source of identity.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur, err := m.load(w, r)
		if err != nil {
			slog.Error("failed to load session", "error", err, "request_id", middleware.RequestID(r.Context()))
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Session unavailable")
			return
		}

		ctx := context.WithValue(r.Context(), currentKey, &cur)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the session attached by Middleware, or nil
func FromContext(ctx context.Context) *models.Session {
	cur, ok := ctx.Value(currentKey).(*current)
	if !ok {
		return nil
	}
	return &cur.sess
}

// TokenFromContext returns the raw cookie token of the request's session
func TokenFromContext(ctx context.Context) string {
	cur, ok := ctx.Value(currentKey).(*current)
	if !ok {
		return ""
	}
	return cur.token
}

// Login checks credentials and binds the user to a freshly issued session.
// The previous token of the request is discarded so it cannot be replayed
// as the logged-in user.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, email, password string) (models.SessionState, error) {
	u, err := m.creds.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		auth.BurnPasswordCheck(password)
		return models.SessionState{}, ErrAuthFailure
	}
	if err != nil {
		return models.SessionState{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if !m.creds.VerifyPassword(u, password) {
		return models.SessionState{}, ErrAuthFailure
	}

	fresh, err := m.issue(ctx, w, r, u.ID, u.Name)
	if err != nil {
		return models.SessionState{}, err
	}

	if cur, ok := ctx.Value(currentKey).(*current); ok {
		if err := m.store.DeleteSession(ctx, cur.sess.TokenHash); err != nil && !errors.Is(err, store.ErrNotFound) {
			slog.Warn("failed to discard rotated session", "error", err)
		}
		*cur = fresh
	}

	slog.Info("user logged in", "user_id", u.ID)
	return fresh.sess.State(), nil
}

// Logout unbinds the user; the token stays valid as an anonymous session
func (m *Manager) Logout(ctx context.Context, token string) error {
	if auth.ValidateSessionToken(token) != nil {
		return nil
	}

	err := m.store.BindSession(ctx, auth.HashSessionToken(token, m.secret), "", "")
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if cur, ok := ctx.Value(currentKey).(*current); ok && cur.token == token {
		cur.sess.UserID = ""
		cur.sess.Name = ""
	}
	return nil
}

// Sweep deletes every expired session
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	return m.store.DeleteExpiredSessions(ctx, m.now())
}

// RunSweeper calls Sweep every interval until ctx is done
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("session sweeper started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			n, err := m.Sweep(ctx)
			if err != nil {
				slog.Error("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("swept expired sessions", "count", humanize.Comma(n))
			}
		}
	}
}
