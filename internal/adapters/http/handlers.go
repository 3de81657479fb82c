package web

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"moodiary/internal/adapters/backend"
	"moodiary/internal/adapters/http/middleware"
	"moodiary/internal/application/orchestrators"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer renders notice markdown. Raw HTML in the input stays escaped.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

const templatesDir = "internal/adapters/http/templates"

// templatesRoot allows tests and the server binary to point at the
// template directory when the working directory is not the repo root.
var templatesRoot = templatesDir

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	email := ""
	if ok {
		email = sess.Email
	}

	funcMap := template.FuncMap{
		"currentEmail": func() string { return email },
		"isLoggedIn":   func() bool { return email != "" },
		"csrfToken":    func() string { return csrf.Token(r) },
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	layoutPath := filepath.Join(templatesRoot, "layout.html")
	pagePath := filepath.Join(templatesRoot, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// sessionEmail returns the logged-in admin's email, or "".
func sessionEmail(r *http.Request) string {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		return ""
	}
	return sess.Email
}

// handleExpiredCredentials intercepts backend auth rejections: the stored
// bearer token is no longer honored, so the session is closed and the
// admin is sent back to the login screen. Returns true when the response
// was written.
func handleExpiredCredentials(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, backend.ErrUnauthorized) {
		return false
	}
	if token := middleware.SessionTokenFromRequest(r); token != "" {
		if derr := stores.SessionStore.Delete(r.Context(), token); derr != nil {
			slog.Warn("auth_event", "event", "session_delete_failed", "error", derr.Error())
		}
	}
	middleware.ClearSessionCookie(w)
	slog.Info("auth_event", "event", "bearer_rejected", "email", sessionEmail(r))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		// If already logged in, redirect to dashboard
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.LoginInput{
			Email:    r.FormValue("Email"),
			Password: r.FormValue("Password"),
		}
		deps := orchestrators.LoginDeps{
			AuthStore:    stores.AuthStore,
			SessionStore: stores.SessionStore,
			AuditStore:   stores.AuditStore,
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			renderTemplate(w, r, "login.html", map[string]any{
				"Error": loginErrorMessage(err),
				"Email": input.Email,
			})
			return
		}

		middleware.SetSessionCookie(w, result.SessionToken)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// loginErrorMessage maps login failures to what the form shows. Backend
// rejections surface the backend's own message when it sent one.
func loginErrorMessage(err error) string {
	if errors.Is(err, orchestrators.ErrMissingCredentials) {
		return "Email and password are required."
	}
	if errors.Is(err, backend.ErrUnauthorized) {
		return "Login failed. Check your email and password."
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Login failed. Try again."
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.LogoutInput{
		SessionToken: middleware.SessionTokenFromRequest(r),
		Email:        sessionEmail(r),
	}
	if err := orchestrators.ExecuteLogout(r.Context(), input, orchestrators.LogoutDeps{
		SessionStore: stores.SessionStore,
		AuditStore:   stores.AuditStore,
	}); err != nil {
		internalError(w, err)
		return
	}

	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleDashboard renders the landing page: recent admin activity plus
// console and backend timing stats.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	entries, err := stores.AuditStore.ListRecent(r.Context(), 20)
	if err != nil {
		internalError(w, err)
		return
	}

	data := map[string]any{
		"Audit": entries,
	}
	if perfCollector != nil {
		data["Perf"] = perfCollector.Snapshot(timeNow().Add(-time.Hour), 5)
	}
	renderTemplate(w, r, "dashboard.html", data)
}
