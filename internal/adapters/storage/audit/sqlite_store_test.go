package audit_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"moodiary/internal/adapters/storage"
	"moodiary/internal/adapters/storage/audit"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init test DB: %v", err)
	}
	return db
}

// TestSQLiteStore_AppendAndList tests appending entries and reading them
// back newest first.
func TestSQLiteStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	store := audit.NewSQLiteStore(newTestDB(t))

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	entries := []audit.Entry{
		{ActorEmail: "admin@example.com", Action: audit.ActionLogin, CreatedAt: base},
		{ActorEmail: "admin@example.com", Action: audit.ActionToggleStatus, EntityKind: "member", EntityID: "star4u@abc.com", CreatedAt: base.Add(time.Minute)},
		{ActorEmail: "admin@example.com", Action: audit.ActionDelete, EntityKind: "notice", EntityID: "4", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := store.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Action != audit.ActionDelete || got[1].Action != audit.ActionToggleStatus {
		t.Errorf("expected newest first, got %s then %s", got[0].Action, got[1].Action)
	}
	if got[0].ID == "" {
		t.Error("expected generated IDs")
	}
}
