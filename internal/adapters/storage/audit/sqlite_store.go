package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moodiary/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Append persists one audit entry.
// PRE: e.ActorEmail and e.Action are non-empty
// POST: Entry persisted; ID and CreatedAt are filled in when zero
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO audit (id, actor_email, action, entity_kind, entity_id, detail, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.ActorEmail, e.Action, e.EntityKind, e.EntityID, e.Detail, e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries, newest first.
// PRE: limit > 0
// POST: Returns up to limit entries
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, actor_email, action, entity_kind, entity_id, detail, created_at FROM audit ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.ActorEmail, &e.Action, &e.EntityKind, &e.EntityID, &e.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse audit created_at: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
