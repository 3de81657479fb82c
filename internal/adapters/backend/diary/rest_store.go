package diary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"moodiary/internal/adapters/backend"
	domain "moodiary/internal/domain/diary"
)

// RESTStore implements Store against the backend diary endpoints.
//
// Earlier revisions of the system served the diary detail from an
// unprefixed /api/diaries path while everything else lived under
// /api/admin. The console standardizes on the admin base path; deployments
// still running the legacy layout can point detailBase at it.
type RESTStore struct {
	client       *backend.Client
	detailBase   string // optional absolute base URL for the detail endpoint
	detailClient *backend.Client
}

// RESTOption customizes a RESTStore.
type RESTOption func(*RESTStore)

// WithDetailBase routes GetByID through a legacy absolute base URL
// (e.g. http://backend:8080/api) instead of the admin base path.
func WithDetailBase(base string) RESTOption {
	return func(s *RESTStore) { s.detailBase = base }
}

// NewRESTStore creates a diary store backed by the given client.
func NewRESTStore(client *backend.Client, opts ...RESTOption) *RESTStore {
	s := &RESTStore{client: client}
	for _, opt := range opts {
		opt(s)
	}
	if s.detailBase != "" {
		s.detailClient = backend.New(s.detailBase)
	}
	return s
}

// diaryPayload is the wire shape of a diary entry.
type diaryPayload struct {
	DiaryID          int64  `json:"diaryId"`
	MemberID         string `json:"memberId"`
	WrittenDate      string `json:"writtenDate"`
	EmotionType      string `json:"emotionType,omitempty"`
	EmotionID        int64  `json:"emotionId,omitempty"`
	Content          string `json:"content,omitempty"`
	TransformContent string `json:"transformContent,omitempty"`
}

func (p diaryPayload) toDomain() domain.Diary {
	return domain.Diary{
		DiaryID:          p.DiaryID,
		MemberID:         p.MemberID,
		WrittenDate:      p.WrittenDate,
		EmotionType:      p.EmotionType,
		EmotionID:        p.EmotionID,
		Content:          p.Content,
		TransformContent: p.TransformContent,
	}
}

// ListByMonth retrieves a member's diaries for one calendar month.
// PRE: memberID is non-empty; year and month describe a valid month
// POST: Returns the entries; an absent diaries key yields an empty slice
func (s *RESTStore) ListByMonth(ctx context.Context, memberID string, year, month int) ([]domain.Diary, error) {
	q := url.Values{}
	q.Set("memberId", memberID)
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(month))

	var raw json.RawMessage
	if err := s.client.Get(ctx, "/diaries", q, &raw); err != nil {
		return nil, err
	}

	var payloads []diaryPayload
	if _, err := backend.DecodeCollection(raw, &payloads, "diaries", "content"); err != nil {
		return nil, err
	}

	entries := make([]domain.Diary, 0, len(payloads))
	for _, p := range payloads {
		d := p.toDomain()
		if d.MemberID == "" {
			d.MemberID = memberID
		}
		entries = append(entries, d)
	}
	return entries, nil
}

// GetByID retrieves one diary entry with its transformed content.
// PRE: id > 0
// POST: Returns the entity or backend.ErrNotFound
func (s *RESTStore) GetByID(ctx context.Context, id int64) (domain.Diary, error) {
	path := "/diaries/" + strconv.FormatInt(id, 10)
	client := s.client
	if s.detailClient != nil {
		client = s.detailClient
	}
	var p diaryPayload
	if err := client.Get(ctx, path, nil, &p); err != nil {
		return domain.Diary{}, fmt.Errorf("get diary %d: %w", id, err)
	}
	d := p.toDomain()
	if d.DiaryID == 0 {
		d.DiaryID = id
	}
	return d, nil
}

// Delete removes a diary entry. An empty 2xx body is success.
// PRE: id > 0
// POST: Entry removed on the backend
func (s *RESTStore) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, "/diaries/"+strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("delete diary %d: %w", id, err)
	}
	return nil
}
