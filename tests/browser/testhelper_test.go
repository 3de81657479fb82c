package browser_test

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	"moodiary/internal/adapters/backend"
	authStore "moodiary/internal/adapters/backend/auth"
	diaryStore "moodiary/internal/adapters/backend/diary"
	memberStore "moodiary/internal/adapters/backend/member"
	noticeStore "moodiary/internal/adapters/backend/notice"
	web "moodiary/internal/adapters/http"
	"moodiary/internal/adapters/http/middleware"
	"moodiary/internal/adapters/http/perf"
	"moodiary/internal/adapters/storage"
	auditStore "moodiary/internal/adapters/storage/audit"
	sessionStore "moodiary/internal/adapters/storage/session"
)

const (
	testAdminEmail    = "admin@test.com"
	testAdminPassword = "TestPass123!"
	testBearer        = "test-bearer-token"
)

// fakeBackend is an in-memory stand-in for the diary service's admin API.
type fakeBackend struct {
	mu      sync.Mutex
	members []map[string]any
	notices []map[string]any
	diaries []map[string]any
	nextID  int64
}

func newFakeBackend() *fakeBackend {
	fb := &fakeBackend{nextID: 100}
	for i := 0; i < 12; i++ {
		fb.members = append(fb.members, map[string]any{
			"id":        fmt.Sprintf("m-%03d", i),
			"email":     fmt.Sprintf("user%d@example.com", i),
			"name":      fmt.Sprintf("User %d", i),
			"birthDate": "1995-04-02",
			"phone":     "010-1234-5678",
			"status":    "ACTIVE",
		})
	}
	fb.notices = append(fb.notices, map[string]any{
		"id": int64(1), "title": "Welcome", "content": "First notice",
		"writer": "admin", "status": "ACTIVE",
	})
	fb.diaries = append(fb.diaries, map[string]any{
		"diaryId": int64(1), "memberId": "m-000", "writtenDate": time.Now().Format("2006-01-02"),
		"emotionType": "joy", "content": "a good day", "transformContent": "a gentle good day",
	})
	return fb
}

func (fb *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/admin/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&body)
		if body.Email != testAdminEmail || body.Password != testAdminPassword {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"accessToken": testBearer})
	})

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+testBearer {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET /api/admin/members", authed(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		if size <= 0 {
			size = 10
		}
		start := page * size
		end := start + size
		if start > len(fb.members) {
			start = len(fb.members)
		}
		if end > len(fb.members) {
			end = len(fb.members)
		}
		totalPages := (len(fb.members) + size - 1) / size
		json.NewEncoder(w).Encode(map[string]any{
			"members": fb.members[start:end], "totalPages": totalPages,
		})
	}))

	mux.HandleFunc("GET /api/admin/members/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		for _, m := range fb.members {
			if m["id"] == r.PathValue("id") {
				json.NewEncoder(w).Encode(m)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	mux.HandleFunc("PUT /api/admin/members/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		for _, m := range fb.members {
			if m["id"] == r.PathValue("id") {
				for _, k := range []string{"name", "birthDate", "phone", "status"} {
					if v, ok := body[k]; ok {
						m[k] = v
					}
				}
				json.NewEncoder(w).Encode(m)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	mux.HandleFunc("GET /api/admin/notices", authed(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"notices": fb.notices, "totalPages": 1})
	}))

	mux.HandleFunc("POST /api/admin/notices", authed(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		body["id"] = fb.nextID
		fb.nextID++
		fb.notices = append(fb.notices, body)
		json.NewEncoder(w).Encode(body)
	}))

	mux.HandleFunc("GET /api/admin/notices/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for _, n := range fb.notices {
			if toInt64(n["id"]) == id {
				json.NewEncoder(w).Encode(n)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	mux.HandleFunc("PUT /api/admin/notices/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		for i, n := range fb.notices {
			if toInt64(n["id"]) == id {
				body["id"] = id
				fb.notices[i] = body
				json.NewEncoder(w).Encode(body)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	mux.HandleFunc("DELETE /api/admin/notices/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for i, n := range fb.notices {
			if toInt64(n["id"]) == id {
				fb.notices = append(fb.notices[:i], fb.notices[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	mux.HandleFunc("GET /api/admin/diaries", authed(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		memberID := r.URL.Query().Get("memberId")
		var out []map[string]any
		for _, d := range fb.diaries {
			if d["memberId"] == memberID {
				out = append(out, d)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"diaries": out})
	}))

	mux.HandleFunc("GET /api/admin/diaries/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for _, d := range fb.diaries {
			if toInt64(d["diaryId"]) == id {
				json.NewEncoder(w).Encode(d)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	mux.HandleFunc("DELETE /api/admin/diaries/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for i, d := range fb.diaries {
			if toInt64(d["diaryId"]) == id {
				fb.diaries = append(fb.diaries[:i], fb.diaries[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	return mux
}

// toInt64 normalizes JSON numbers that round-trip as float64.
func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

// testApp holds the running console, the fake backend, and Playwright handles.
type testApp struct {
	BaseURL string
	Backend *fakeBackend
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
}

// newTestApp starts the console against a fake backend with a temp sqlite DB.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	fb := newFakeBackend()
	backendSrv := httptest.NewServer(fb.handler())
	t.Cleanup(backendSrv.Close)

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to initialize test DB: %v", err)
	}

	client := backend.New(backendSrv.URL + "/api/admin")
	stores := &web.Stores{
		SessionStore: sessionStore.NewSQLiteStore(db),
		AuditStore:   auditStore.NewSQLiteStore(db),
		AuthStore:    authStore.NewRESTStore(client),
		MemberStore:  memberStore.NewRESTStore(client),
		NoticeStore:  noticeStore.NewRESTStore(client),
		DiaryStore:   diaryStore.NewRESTStore(client),
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative template/static paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	// Add test port to CSRF trusted origins before creating mux
	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	web.RateLimitPerSecond = 1000
	mux := web.NewMux("static", stores, perf.NewCollector(1000))
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		Backend: fb,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login navigates to the login page and signs in as the test admin.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=Email]").Fill(testAdminEmail); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=Password]").Fill(testAdminPassword); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}

// findProjectRoot walks up from the working directory to the directory
// containing go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}

// textContent fetches trimmed text from a locator.
func textContent(t *testing.T, loc playwright.Locator) string {
	t.Helper()
	text, err := loc.TextContent()
	if err != nil {
		t.Fatalf("failed to read text: %v", err)
	}
	return strings.TrimSpace(text)
}
