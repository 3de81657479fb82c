package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLDB is the subset of *sql.DB the stores use. Kept as an interface so
// instrumentation wrappers and test fakes can stand in.
type SQLDB interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// InitDB initializes the local console database schema.
// The console is a frontend to the backend REST API; the only local state
// is the admin session table and the action audit log.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS session (
		token TEXT PRIMARY KEY,
		bearer_token TEXT NOT NULL,
		email TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit (
		id TEXT PRIMARY KEY,
		actor_email TEXT NOT NULL,
		action TEXT NOT NULL,
		entity_kind TEXT NOT NULL DEFAULT '',
		entity_id TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
