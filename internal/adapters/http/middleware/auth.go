package middleware

import (
	"context"
	"net/http"

	"moodiary/internal/adapters/backend"
	"moodiary/internal/adapters/storage/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

const sessionCookieName = "moodiary_session"

// Auth returns middleware that resolves the session cookie against the
// session store and, when valid, sets both the session and the backend
// bearer token in the request context. The store is re-read on every
// request, so a login or logout in one browser tab is visible to all
// others immediately.
// It does NOT block unauthenticated requests — use RequireAuth for that.
func Auth(sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if sess, ok, err := sessions.Get(r.Context(), cookie.Value); err == nil && ok {
					ctx := context.WithValue(r.Context(), sessionContextKey, sess)
					ctx = backend.ContextWithToken(ctx, sess.BearerToken)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that blocks unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(session.Session)
	return sess, ok
}

// ContextWithSession returns a context with the given session set and
// its bearer token attached for backend calls.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess session.Session) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey, sess)
	return backend.ContextWithToken(ctx, sess.BearerToken)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   false, // Allow HTTP for local development
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   86400, // 24 hours
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// SessionTokenFromRequest returns the raw session token from the cookie,
// or "" when the cookie is absent.
func SessionTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
