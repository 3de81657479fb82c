package web

import (
	"net/http"

	"moodiary/internal/adapters/http/middleware"
)

// registerRoutes attaches all console handlers to the mux. Everything
// except the login screen sits behind RequireAuth.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", handleRoot)
	mux.HandleFunc("/login", handleLogin)

	mux.Handle("/logout", authed(handleLogout))
	mux.Handle("/dashboard", authed(handleDashboard))

	mux.Handle("/members", authed(handleMembers))
	mux.Handle("/members/{id}/edit", authed(handleMemberEdit))
	mux.Handle("/members/{id}/toggle", authed(handleMemberToggle))
	mux.Handle("/members/{id}/diaries", authed(handleMemberDiaries))

	mux.Handle("/notices", authed(handleNotices))
	mux.Handle("/notices/new", authed(handleNoticeNew))
	mux.Handle("/notices/{id}/edit", authed(handleNoticeEdit))
	mux.Handle("/notices/{id}/toggle", authed(handleNoticeToggle))
	mux.Handle("/notices/{id}/delete", authed(handleNoticeDelete))

	mux.Handle("/diaries/{id}", authed(handleDiaryDetail))
	mux.Handle("/diaries/{id}/delete", authed(handleDiaryDelete))
}

func authed(h http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(h)
}

// handleRoot sends authenticated visitors to the dashboard and everyone
// else to the login screen.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
