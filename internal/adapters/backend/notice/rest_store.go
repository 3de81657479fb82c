package notice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"moodiary/internal/adapters/backend"
	domain "moodiary/internal/domain/notice"
)

// RESTStore implements Store against the backend notice endpoints.
type RESTStore struct {
	client *backend.Client
}

// NewRESTStore creates a notice store backed by the given client.
func NewRESTStore(client *backend.Client) *RESTStore {
	return &RESTStore{client: client}
}

// noticePayload is the wire shape of a notice.
type noticePayload struct {
	ID      int64  `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Writer  string `json:"writer,omitempty"`
	Status  string `json:"status,omitempty"`
}

func (p noticePayload) toDomain() domain.Notice {
	return domain.Notice{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Content,
		Writer:  p.Writer,
		Status:  p.Status,
	}
}

func fromDomain(n domain.Notice) noticePayload {
	return noticePayload{
		Title:   n.Title,
		Content: n.Content,
		Writer:  n.Writer,
		Status:  n.Status,
	}
}

// ListPage retrieves one page of notices.
// PRE: page >= 0, size > 0
// POST: Returns the page; TotalPages is 0 when the backend omitted it
func (s *RESTStore) ListPage(ctx context.Context, page, size int) (Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var raw json.RawMessage
	if err := s.client.Get(ctx, "/notices", q, &raw); err != nil {
		return Page{}, err
	}

	var payloads []noticePayload
	totalPages, err := backend.DecodeCollection(raw, &payloads, "notices", "content")
	if err != nil {
		return Page{}, err
	}

	result := Page{TotalPages: totalPages, Notices: make([]domain.Notice, 0, len(payloads))}
	for _, p := range payloads {
		result.Notices = append(result.Notices, p.toDomain())
	}
	return result, nil
}

// GetByID retrieves a Notice by its ID.
// PRE: id > 0
// POST: Returns the entity or backend.ErrNotFound
func (s *RESTStore) GetByID(ctx context.Context, id int64) (domain.Notice, error) {
	var p noticePayload
	if err := s.client.Get(ctx, "/notices/"+strconv.FormatInt(id, 10), nil, &p); err != nil {
		return domain.Notice{}, fmt.Errorf("get notice %d: %w", id, err)
	}
	n := p.toDomain()
	if n.ID == 0 {
		n.ID = id
	}
	return n, nil
}

// Create posts a new notice.
// PRE: n has been validated
// POST: Returns the server-confirmed entity, or nil on an empty success body
func (s *RESTStore) Create(ctx context.Context, n domain.Notice) (*domain.Notice, error) {
	var raw json.RawMessage
	if err := s.client.Post(ctx, "/notices", fromDomain(n), &raw); err != nil {
		return nil, fmt.Errorf("create notice: %w", err)
	}
	return decodeConfirmed(raw, n.ID)
}

// Update sends the full entity payload.
// PRE: n.ID > 0; n has been validated
// POST: Returns the server-confirmed entity, or nil on an empty success body
func (s *RESTStore) Update(ctx context.Context, n domain.Notice) (*domain.Notice, error) {
	var raw json.RawMessage
	if err := s.client.Put(ctx, "/notices/"+strconv.FormatInt(n.ID, 10), fromDomain(n), &raw); err != nil {
		return nil, fmt.Errorf("update notice %d: %w", n.ID, err)
	}
	return decodeConfirmed(raw, n.ID)
}

// Delete removes a notice. An empty 2xx body is success.
// PRE: id > 0
// POST: Notice removed on the backend
func (s *RESTStore) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, "/notices/"+strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("delete notice %d: %w", id, err)
	}
	return nil
}

func decodeConfirmed(raw json.RawMessage, fallbackID int64) (*domain.Notice, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var p noticePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode notice response: %w", err)
	}
	n := p.toDomain()
	if n.ID == 0 {
		n.ID = fallbackID
	}
	return &n, nil
}
