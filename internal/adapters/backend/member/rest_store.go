package member

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"moodiary/internal/adapters/backend"
	domain "moodiary/internal/domain/member"
)

// RESTStore implements Store against the backend member endpoints.
type RESTStore struct {
	client *backend.Client
}

// NewRESTStore creates a member store backed by the given client.
func NewRESTStore(client *backend.Client) *RESTStore {
	return &RESTStore{client: client}
}

// memberPayload is the wire shape of a member.
type memberPayload struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
	Phone     string `json:"phone"`
	Status    string `json:"status,omitempty"`
	Password  string `json:"password,omitempty"`
}

func (p memberPayload) toDomain() domain.Member {
	id := p.ID
	if id == "" {
		id = p.Email
	}
	return domain.Member{
		ID:        id,
		Email:     p.Email,
		Name:      p.Name,
		BirthDate: p.BirthDate,
		Phone:     p.Phone,
		Status:    p.Status,
	}
}

// ListPage retrieves one page of members.
// PRE: page >= 0, size > 0
// POST: Returns the page; TotalPages is 0 when the backend omitted it
func (s *RESTStore) ListPage(ctx context.Context, page, size int) (Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var raw json.RawMessage
	if err := s.client.Get(ctx, "/members", q, &raw); err != nil {
		return Page{}, err
	}

	var payloads []memberPayload
	totalPages, err := backend.DecodeCollection(raw, &payloads, "members", "content")
	if err != nil {
		return Page{}, err
	}

	result := Page{TotalPages: totalPages, Members: make([]domain.Member, 0, len(payloads))}
	for _, p := range payloads {
		result.Members = append(result.Members, p.toDomain())
	}
	return result, nil
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or backend.ErrNotFound
func (s *RESTStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	var p memberPayload
	if err := s.client.Get(ctx, "/members/"+url.PathEscape(id), nil, &p); err != nil {
		return domain.Member{}, fmt.Errorf("get member %s: %w", id, err)
	}
	return p.toDomain(), nil
}

// Update sends the full editable payload via the general update endpoint.
// PRE: m.ID is non-empty; m has been validated
// POST: Returns the server-confirmed entity, or nil on an empty success body
func (s *RESTStore) Update(ctx context.Context, m domain.Member, newPassword string) (*domain.Member, error) {
	body := memberPayload{
		Name:      m.Name,
		BirthDate: m.BirthDate,
		Phone:     m.Phone,
		Status:    m.Status,
		Password:  newPassword, // omitted from JSON when empty
	}

	var raw json.RawMessage
	if err := s.client.Put(ctx, "/members/"+url.PathEscape(m.ID), body, &raw); err != nil {
		return nil, fmt.Errorf("update member %s: %w", m.ID, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var confirmed memberPayload
	if err := json.Unmarshal(raw, &confirmed); err != nil {
		return nil, fmt.Errorf("decode updated member: %w", err)
	}
	result := confirmed.toDomain()
	if result.ID == "" {
		result.ID = m.ID
	}
	return &result, nil
}
