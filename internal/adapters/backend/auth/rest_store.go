package auth

import (
	"context"
	"errors"

	"moodiary/internal/adapters/backend"
)

// ErrNoToken is returned when a 2xx login response carries no accessToken.
// The original treated this malformed success as a failed login.
var ErrNoToken = errors.New("login response did not include a token")

// RESTStore implements Store against the backend auth endpoint.
type RESTStore struct {
	client *backend.Client
}

// NewRESTStore creates an auth store backed by the given client.
func NewRESTStore(client *backend.Client) *RESTStore {
	return &RESTStore{client: client}
}

// Login issues POST /auth/login with the credential pair.
// PRE: email and password are non-empty
// POST: Returns the bearer token on success; the session stays
// unauthenticated on any failure
func (s *RESTStore) Login(ctx context.Context, email, password string) (string, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := s.client.Post(ctx, "/auth/login", body, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", ErrNoToken
	}
	return resp.AccessToken, nil
}
