package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	backendAuth "moodiary/internal/adapters/backend/auth"
	"moodiary/internal/adapters/storage/audit"
	"moodiary/internal/adapters/storage/session"
)

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	SessionToken string
	Email        string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AuthStore    backendAuth.Store
	SessionStore session.Store
	AuditStore   audit.Store
}

// ErrMissingCredentials is returned before any backend call when either
// field is empty.
var ErrMissingCredentials = errors.New("email and password are required")

// ExecuteLogin exchanges credentials for a backend bearer token and opens
// an admin session around it.
// PRE: Valid email and password provided
// POST: Session persisted on success; the session stays closed on any
// failure and the caller surfaces the error for resubmission
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return LoginResult{}, ErrMissingCredentials
	}

	bearer, err := deps.AuthStore.Login(ctx, input.Email, input.Password)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "error", err.Error())
		return LoginResult{}, err
	}

	token, err := deps.SessionStore.Create(ctx, bearer, input.Email)
	if err != nil {
		slog.Error("auth_event", "event", "session_create_failed", "email", input.Email, "error", err.Error())
		return LoginResult{}, err
	}

	recordAudit(ctx, deps.AuditStore, audit.Entry{
		ActorEmail: input.Email,
		Action:     audit.ActionLogin,
	})
	slog.Info("auth_event", "event", "login_success", "email", input.Email)

	return LoginResult{SessionToken: token, Email: input.Email}, nil
}

// LogoutInput carries input for the logout orchestrator.
type LogoutInput struct {
	SessionToken string
	Email        string
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	SessionStore session.Store
	AuditStore   audit.Store
}

// ExecuteLogout closes the admin session.
// PRE: SessionToken identifies the caller's session
// POST: Session row removed; the bearer token is forgotten
func ExecuteLogout(ctx context.Context, input LogoutInput, deps LogoutDeps) error {
	if err := deps.SessionStore.Delete(ctx, input.SessionToken); err != nil {
		return err
	}
	recordAudit(ctx, deps.AuditStore, audit.Entry{
		ActorEmail: input.Email,
		Action:     audit.ActionLogout,
	})
	slog.Info("auth_event", "event", "logout", "email", input.Email)
	return nil
}

// recordAudit appends an audit entry, tolerating a nil store and logging
// instead of failing the business operation on audit errors.
func recordAudit(ctx context.Context, store audit.Store, e audit.Entry) {
	if store == nil {
		return
	}
	if err := store.Append(ctx, e); err != nil {
		slog.Warn("audit_event", "event", "append_failed", "action", e.Action, "error", err.Error())
	}
}
