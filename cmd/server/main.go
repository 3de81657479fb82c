package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"moodiary/internal/adapters/backend"
	authStore "moodiary/internal/adapters/backend/auth"
	diaryStore "moodiary/internal/adapters/backend/diary"
	memberStore "moodiary/internal/adapters/backend/member"
	noticeStore "moodiary/internal/adapters/backend/notice"
	web "moodiary/internal/adapters/http"
	"moodiary/internal/adapters/http/perf"
	"moodiary/internal/adapters/storage"
	auditStore "moodiary/internal/adapters/storage/audit"
	sessionStore "moodiary/internal/adapters/storage/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Local state: sessions and the audit trail live in sqlite with WAL
	// mode, foreign keys, and a busy timeout.
	dbPath := envOrDefault("MOODIARY_DB", "moodiary.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)

	// The backend client reports per-call timings into the same collector
	// the request middleware uses.
	backendURL := envOrDefault("MOODIARY_BACKEND_URL", "http://localhost:8081/api/admin")
	client := backend.New(backendURL, backend.WithObserver(func(method, path string, status int, elapsed time.Duration) {
		collector.Record(perf.Entry{
			Kind:       perf.KindBackend,
			Path:       method + " " + path,
			StatusCode: status,
			DurationMs: float64(elapsed.Microseconds()) / 1000.0,
			Timestamp:  time.Now().Add(-elapsed),
		})
	}))

	var diaryOpts []diaryStore.RESTOption
	if legacy := os.Getenv("MOODIARY_DIARY_DETAIL_URL"); legacy != "" {
		// Older backend builds serve diary detail outside the admin base.
		diaryOpts = append(diaryOpts, diaryStore.WithDetailBase(legacy))
	}

	stores := &web.Stores{
		SessionStore: sessionStore.NewSQLiteStore(db),
		AuditStore:   auditStore.NewSQLiteStore(db),
		AuthStore:    authStore.NewRESTStore(client),
		MemberStore:  memberStore.NewRESTStore(client),
		NoticeStore:  noticeStore.NewRESTStore(client),
		DiaryStore:   diaryStore.NewRESTStore(client, diaryOpts...),
	}

	mux := web.NewMux("static", stores, collector)

	addr := envOrDefault("MOODIARY_ADDR", ":8080")
	slog.Info("startup",
		"version", version,
		"addr", addr,
		"backend", backendURL,
		"env", envOrDefault("MOODIARY_ENV", "development"),
	)

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
