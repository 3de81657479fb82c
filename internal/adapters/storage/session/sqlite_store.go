package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"moodiary/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  storage.SQLDB
	now func() time.Time
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Create stores a new session and returns the cookie token.
// PRE: bearerToken and email are non-empty
// POST: Session row persisted, token returned
func (s *SQLiteStore) Create(ctx context.Context, bearerToken, email string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO session (token, bearer_token, email, created_at) VALUES (?, ?, ?, ?)",
		token, bearerToken, email, s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Get retrieves a live session by token.
// PRE: token is non-empty
// POST: Returns the session if present and not expired; expired rows are
// deleted on read
func (s *SQLiteStore) Get(ctx context.Context, token string) (Session, bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT token, bearer_token, email, created_at FROM session WHERE token = ?", token,
	)

	var sess Session
	var createdAt string
	err := row.Scan(&sess.Token, &sess.BearerToken, &sess.Email, &createdAt)
	if err == sql.ErrNoRows {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("get session: %w", err)
	}
	sess.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Session{}, false, fmt.Errorf("parse session created_at: %w", err)
	}

	if sess.Expired(s.now()) {
		_, _ = s.db.ExecContext(ctx, "DELETE FROM session WHERE token = ?", token)
		return Session{}, false, nil
	}
	return sess, true, nil
}

// Delete removes a session by token.
// PRE: token is non-empty
// POST: Session row removed; deleting an unknown token is not an error
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE token = ?", token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
