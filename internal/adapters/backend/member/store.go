package member

import (
	"context"

	domain "moodiary/internal/domain/member"
)

// Page is one page of members plus backend pagination metadata.
type Page struct {
	Members    []domain.Member
	TotalPages int
}

// Store reads and mutates Member state through the backend.
type Store interface {
	ListPage(ctx context.Context, page, size int) (Page, error)
	GetByID(ctx context.Context, id string) (domain.Member, error)
	// Update sends the full editable payload. newPassword is included only
	// when non-empty; an empty value means "leave unchanged" and the key is
	// omitted from the request body. The returned pointer is the
	// server-confirmed entity, nil when the backend answered with an empty
	// success body.
	Update(ctx context.Context, m domain.Member, newPassword string) (*domain.Member, error)
}
