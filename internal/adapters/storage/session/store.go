package session

import (
	"context"
	"time"
)

// TTL is how long an admin session stays valid.
const TTL = 24 * time.Hour

// Session is one authenticated admin session. BearerToken is the backend
// credential attached to every REST call made on the admin's behalf.
type Session struct {
	Token       string
	BearerToken string
	Email       string
	CreatedAt   time.Time
}

// Expired reports whether the session has outlived its TTL at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > TTL
}

// Store persists admin sessions. Persistence is shared by every browser
// tab and survives restarts; each request re-reads the store, so a session
// revoked elsewhere stops working on the next guarded navigation.
type Store interface {
	// Create stores a new session and returns its cookie token.
	Create(ctx context.Context, bearerToken, email string) (string, error)
	// Get retrieves a live session. ok is false for unknown or expired
	// tokens; expired rows are removed on read.
	Get(ctx context.Context, token string) (Session, bool, error)
	Delete(ctx context.Context, token string) error
}
