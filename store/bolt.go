// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/danielhkuo/quiz-maker/models"
)

// Collections, one bucket each. usersByEmail maps email -> user id and
// enforces uniqueness inside the same transaction as the user insert.
var (
	bucketUsers        = []byte("users")
	bucketUsersByEmail = []byte("users_by_email")
	bucketQuizzes      = []byte("quizzes")
	bucketSessions     = []byte("sessions")
)

// BoltStore is an embedded document store: JSON documents keyed by id,
// one bucket per collection. Each method runs in a single bolt transaction.
type BoltStore struct {
	db *bbolt.DB
}

// userDoc is the stored form of a user; models.User hides the hash from JSON
type userDoc struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// sessionDoc is the stored form of a session
type sessionDoc struct {
	UserID    string    `json:"userId,omitempty"`
	Name      string    `json:"name,omitempty"`
	IPHash    string    `json:"ipHash,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// OpenBolt opens (or creates) the bolt file at path and its buckets
func OpenBolt(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketUsers, bucketUsersByEmail, bucketQuizzes, bucketSessions} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// view and update refuse to start once ctx is done
func (s *BoltStore) view(ctx context.Context, fn func(tx *bbolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

func (s *BoltStore) update(ctx context.Context, fn func(tx *bbolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(fn)
}

func getDoc(b *bbolt.Bucket, key string, out any) error {
	v := b.Get([]byte(key))
	if v == nil {
		return ErrNotFound
	}
	if err := json.Unmarshal(v, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func putDoc(b *bbolt.Bucket, key string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return b.Put([]byte(key), data)
}

// Users

func (s *BoltStore) CreateUser(ctx context.Context, u models.User) error {
	return s.update(ctx, func(tx *bbolt.Tx) error {
		byEmail := tx.Bucket(bucketUsersByEmail)
		if byEmail.Get([]byte(u.Email)) != nil {
			return ErrDuplicateEmail
		}
		if err := byEmail.Put([]byte(u.Email), []byte(u.ID)); err != nil {
			return err
		}
		return putDoc(tx.Bucket(bucketUsers), u.ID, userDoc(u))
	})
}

func (s *BoltStore) FindUserByID(ctx context.Context, id string) (models.User, error) {
	var doc userDoc
	err := s.view(ctx, func(tx *bbolt.Tx) error {
		return getDoc(tx.Bucket(bucketUsers), id, &doc)
	})
	if err != nil {
		return models.User{}, err
	}
	return models.User(doc), nil
}

func (s *BoltStore) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var doc userDoc
	err := s.view(ctx, func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketUsersByEmail).Get([]byte(email))
		if id == nil {
			return ErrNotFound
		}
		return getDoc(tx.Bucket(bucketUsers), string(id), &doc)
	})
	if err != nil {
		return models.User{}, err
	}
	return models.User(doc), nil
}

func (s *BoltStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.view(ctx, func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUsers).ForEach(func(k, v []byte) error {
			var doc userDoc
			if err := json.Unmarshal(v, &doc); err != nil {
				return fmt.Errorf("failed to decode user %s: %w", k, err)
			}
			doc.PasswordHash = ""
			users = append(users, models.User(doc))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// Quizzes

func (s *BoltStore) CreateQuiz(ctx context.Context, q models.Quiz) error {
	return s.update(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketQuizzes)
		if b.Get([]byte(q.ID)) != nil {
			return fmt.Errorf("quiz %s already exists", q.ID)
		}
		return putDoc(b, q.ID, q)
	})
}

func (s *BoltStore) FindQuiz(ctx context.Context, id string) (models.Quiz, error) {
	var q models.Quiz
	err := s.view(ctx, func(tx *bbolt.Tx) error {
		return getDoc(tx.Bucket(bucketQuizzes), id, &q)
	})
	if err != nil {
		return models.Quiz{}, err
	}
	return q, nil
}

func (s *BoltStore) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	quizzes := []models.Quiz{}
	err := s.view(ctx, func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQuizzes).ForEach(func(k, v []byte) error {
			var q models.Quiz
			if err := json.Unmarshal(v, &q); err != nil {
				return fmt.Errorf("failed to decode quiz %s: %w", k, err)
			}
			quizzes = append(quizzes, q)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// Keys are random ids, so restore creation order
	sort.SliceStable(quizzes, func(i, j int) bool {
		if quizzes[i].CreatedAt.Equal(quizzes[j].CreatedAt) {
			return quizzes[i].ID < quizzes[j].ID
		}
		return quizzes[i].CreatedAt.Before(quizzes[j].CreatedAt)
	})
	return quizzes, nil
}

// ownedQuiz loads a quiz inside tx and checks the owner
func ownedQuiz(b *bbolt.Bucket, id, owner string) (models.Quiz, error) {
	var q models.Quiz
	if err := getDoc(b, id, &q); err != nil {
		return models.Quiz{}, err
	}
	if q.Owner != owner {
		return models.Quiz{}, ErrForbidden
	}
	return q, nil
}

func (s *BoltStore) UpdateQuiz(ctx context.Context, q models.Quiz) (models.Quiz, error) {
	var updated models.Quiz
	err := s.update(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketQuizzes)
		current, err := ownedQuiz(b, q.ID, q.Owner)
		if err != nil {
			return err
		}

		current.Title = q.Title
		current.Description = q.Description
		current.Questions = q.Questions
		current.UpdatedAt = q.UpdatedAt
		updated = current
		return putDoc(b, q.ID, current)
	})
	if err != nil {
		return models.Quiz{}, err
	}
	return updated, nil
}

func (s *BoltStore) DeleteQuiz(ctx context.Context, id, owner string) error {
	return s.update(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketQuizzes)
		if _, err := ownedQuiz(b, id, owner); err != nil {
			return err
		}
		return b.Delete([]byte(id))
	})
}

// Sessions

func (s *BoltStore) CreateSession(ctx context.Context, sess models.Session) error {
	return s.update(ctx, func(tx *bbolt.Tx) error {
		return putDoc(tx.Bucket(bucketSessions), sess.TokenHash, sessionDoc{
			UserID:    sess.UserID,
			Name:      sess.Name,
			IPHash:    sess.IPHash,
			UserAgent: sess.UserAgent,
			CreatedAt: sess.CreatedAt,
			ExpiresAt: sess.ExpiresAt,
		})
	})
}

func (s *BoltStore) FindSession(ctx context.Context, tokenHash string) (models.Session, error) {
	var doc sessionDoc
	err := s.view(ctx, func(tx *bbolt.Tx) error {
		return getDoc(tx.Bucket(bucketSessions), tokenHash, &doc)
	})
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{
		TokenHash: tokenHash,
		UserID:    doc.UserID,
		Name:      doc.Name,
		IPHash:    doc.IPHash,
		UserAgent: doc.UserAgent,
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}

// modifySession applies fn to a stored session in one transaction
func (s *BoltStore) modifySession(ctx context.Context, tokenHash string, fn func(doc *sessionDoc)) error {
	return s.update(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		var doc sessionDoc
		if err := getDoc(b, tokenHash, &doc); err != nil {
			return err
		}
		fn(&doc)
		return putDoc(b, tokenHash, doc)
	})
}

func (s *BoltStore) TouchSession(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	return s.modifySession(ctx, tokenHash, func(doc *sessionDoc) {
		doc.ExpiresAt = expiresAt
	})
}

func (s *BoltStore) BindSession(ctx context.Context, tokenHash, userID, name string) error {
	return s.modifySession(ctx, tokenHash, func(doc *sessionDoc) {
		doc.UserID = userID
		doc.Name = name
	})
}

func (s *BoltStore) DeleteSession(ctx context.Context, tokenHash string) error {
	return s.update(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		if b.Get([]byte(tokenHash)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(tokenHash))
	})
}

func (s *BoltStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := s.update(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSessions)

		// Collect first; deleting under a live cursor skips entries
		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var doc sessionDoc
			if err := json.Unmarshal(v, &doc); err != nil {
				return fmt.Errorf("failed to decode session: %w", err)
			}
			if !doc.ExpiresAt.After(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
