package diary

import (
	"context"

	domain "moodiary/internal/domain/diary"
)

// Store reads and deletes Diary state through the backend. The console
// never writes diary content.
type Store interface {
	ListByMonth(ctx context.Context, memberID string, year, month int) ([]domain.Diary, error)
	GetByID(ctx context.Context, id int64) (domain.Diary, error)
	Delete(ctx context.Context, id int64) error
}
