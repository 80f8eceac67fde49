// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/quiz-maker/models"
)

// SQLStore keeps users, quizzes and sessions in Postgres or sqlite.
// Both drivers accept $N placeholders, so queries are shared.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation recognizes unique constraint failures from either driver
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// Users

func (s *SQLStore) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt.UTC())

	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *SQLStore) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return s.findUser(ctx, "id", id)
}

func (s *SQLStore) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, "email", email)
}

// findUser looks a user up by a unique column; column is never user input
func (s *SQLStore) findUser(ctx context.Context, column, value string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE `+column+` = $1
	`, value).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]models.User, error) {
	// password_hash is not selected at all
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, name, created_at
		FROM users
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Quizzes

func (s *SQLStore) CreateQuiz(ctx context.Context, q models.Quiz) error {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quizzes (id, owner_id, title, description, questions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, q.ID, q.Owner, q.Title, q.Description, string(questions), q.CreatedAt.UTC(), q.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (models.Quiz, error) {
	var q models.Quiz
	var questions []byte
	if err := row.Scan(&q.ID, &q.Owner, &q.Title, &q.Description, &questions, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return models.Quiz{}, err
	}
	if err := json.Unmarshal(questions, &q.Questions); err != nil {
		return models.Quiz{}, fmt.Errorf("failed to decode questions of quiz %s: %w", q.ID, err)
	}
	if q.Questions == nil {
		q.Questions = []models.Question{}
	}
	return q, nil
}

func (s *SQLStore) FindQuiz(ctx context.Context, id string) (models.Quiz, error) {
	q, err := scanQuiz(s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, questions, created_at, updated_at
		FROM quizzes
		WHERE id = $1
	`, id))

	if err == sql.ErrNoRows {
		return models.Quiz{}, ErrNotFound
	}
	if err != nil {
		return models.Quiz{}, fmt.Errorf("failed to query quiz: %w", err)
	}
	return q, nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, title, description, questions, created_at, updated_at
		FROM quizzes
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []models.Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quizzes: %w", err)
	}
	return quizzes, nil
}

func (s *SQLStore) UpdateQuiz(ctx context.Context, q models.Quiz) (models.Quiz, error) {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return models.Quiz{}, fmt.Errorf("failed to encode questions: %w", err)
	}

	// One conditional statement: the owner check and the write cannot interleave
	err = s.db.QueryRowContext(ctx, `
		UPDATE quizzes
		SET title = $1, description = $2, questions = $3, updated_at = $4
		WHERE id = $5 AND owner_id = $6
		RETURNING created_at
	`, q.Title, q.Description, string(questions), q.UpdatedAt.UTC(), q.ID, q.Owner).Scan(&q.CreatedAt)

	if err == sql.ErrNoRows {
		return models.Quiz{}, s.missOrForbidden(ctx, q.ID)
	}
	if err != nil {
		return models.Quiz{}, fmt.Errorf("failed to update quiz: %w", err)
	}
	return q, nil
}

func (s *SQLStore) DeleteQuiz(ctx context.Context, id, owner string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM quizzes WHERE id = $1 AND owner_id = $2
	`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read deleted rows: %w", err)
	}
	if n == 0 {
		return s.missOrForbidden(ctx, id)
	}
	return nil
}

// missOrForbidden explains why an owner-scoped write matched nothing
func (s *SQLStore) missOrForbidden(ctx context.Context, id string) error {
	var owner string
	err := s.db.QueryRowContext(ctx, `SELECT owner_id FROM quizzes WHERE id = $1`, id).Scan(&owner)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query quiz owner: %w", err)
	}
	return ErrForbidden
}

// Sessions

func (s *SQLStore) CreateSession(ctx context.Context, sess models.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, user_id, name, ip_hash, user_agent, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, sess.TokenHash, nullString(sess.UserID), sess.Name, sess.IPHash, sess.UserAgent,
		sess.CreatedAt.Unix(), sess.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *SQLStore) FindSession(ctx context.Context, tokenHash string) (models.Session, error) {
	var sess models.Session
	var userID sql.NullString
	var created, expires int64

	err := s.db.QueryRowContext(ctx, `
		SELECT token_hash, user_id, name, ip_hash, user_agent, created_at, expires_at
		FROM sessions
		WHERE token_hash = $1
	`, tokenHash).Scan(&sess.TokenHash, &userID, &sess.Name, &sess.IPHash, &sess.UserAgent, &created, &expires)

	if err == sql.ErrNoRows {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to query session: %w", err)
	}

	sess.UserID = userID.String
	sess.CreatedAt = time.Unix(created, 0)
	sess.ExpiresAt = time.Unix(expires, 0)
	return sess, nil
}

func (s *SQLStore) TouchSession(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	return s.execSession(ctx, `
		UPDATE sessions SET expires_at = $1 WHERE token_hash = $2
	`, expiresAt.Unix(), tokenHash)
}

func (s *SQLStore) BindSession(ctx context.Context, tokenHash, userID, name string) error {
	return s.execSession(ctx, `
		UPDATE sessions SET user_id = $1, name = $2 WHERE token_hash = $3
	`, nullString(userID), name, tokenHash)
}

func (s *SQLStore) DeleteSession(ctx context.Context, tokenHash string) error {
	return s.execSession(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
}

// execSession runs a single-session statement and reports ErrNotFound when no row matched
func (s *SQLStore) execSession(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
