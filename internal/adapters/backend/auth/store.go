package auth

import "context"

// Store authenticates administrators against the backend.
type Store interface {
	// Login exchanges a credential pair for a bearer token.
	Login(ctx context.Context, email, password string) (string, error)
}
