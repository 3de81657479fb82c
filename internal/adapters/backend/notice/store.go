package notice

import (
	"context"

	domain "moodiary/internal/domain/notice"
)

// Page is one page of notices plus backend pagination metadata.
type Page struct {
	Notices    []domain.Notice
	TotalPages int
}

// Store reads and mutates Notice state through the backend.
type Store interface {
	ListPage(ctx context.Context, page, size int) (Page, error)
	GetByID(ctx context.Context, id int64) (domain.Notice, error)
	Create(ctx context.Context, n domain.Notice) (*domain.Notice, error)
	// Update sends the full entity payload through the general update
	// endpoint; there is no dedicated status-patch call. The returned
	// pointer is the server-confirmed entity, nil on an empty success body.
	Update(ctx context.Context, n domain.Notice) (*domain.Notice, error)
	Delete(ctx context.Context, id int64) error
}
