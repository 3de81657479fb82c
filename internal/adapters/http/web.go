package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	authStore "moodiary/internal/adapters/backend/auth"
	diaryStore "moodiary/internal/adapters/backend/diary"
	memberStore "moodiary/internal/adapters/backend/member"
	noticeStore "moodiary/internal/adapters/backend/notice"
	"moodiary/internal/adapters/http/middleware"
	"moodiary/internal/adapters/http/perf"
	auditStore "moodiary/internal/adapters/storage/audit"
	sessionStore "moodiary/internal/adapters/storage/session"
)

// Stores holds all storage and backend dependencies.
type Stores struct {
	SessionStore sessionStore.Store
	AuditStore   auditStore.Store
	AuthStore    authStore.Store
	MemberStore  memberStore.Store
	NoticeStore  noticeStore.Store
	DiaryStore   diaryStore.Store
}

// loadCSRFKey reads the CSRF secret from MOODIARY_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("MOODIARY_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("MOODIARY_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("MOODIARY_ENV") == "production" {
		log.Fatal("MOODIARY_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (form tokens won't survive restart). Set MOODIARY_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// NewMux wires HTTP handlers for the console.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(s.SessionStore),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
