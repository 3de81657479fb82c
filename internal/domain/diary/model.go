package diary

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrInvalidID          = errors.New("diary ID must be positive")
	ErrEmptyMemberID      = errors.New("diary member ID cannot be empty")
	ErrInvalidWrittenDate = errors.New("diary written date must be YYYY-MM-DD")
)

// Diary is a user diary entry. The console only inspects and deletes
// diaries; it never creates or edits them on a user's behalf.
//
// List responses carry EmotionType; the detail endpoint carries EmotionID
// and the model-transformed content alongside the raw content.
type Diary struct {
	DiaryID          int64
	MemberID         string
	WrittenDate      string // YYYY-MM-DD
	EmotionType      string
	EmotionID        int64
	Content          string
	TransformContent string
}

// Validate checks if the Diary has valid data.
// PRE: Diary struct is populated from a backend response
// POST: Returns nil if valid, error otherwise
func (d *Diary) Validate() error {
	if d.DiaryID <= 0 {
		return ErrInvalidID
	}
	if d.MemberID == "" {
		return ErrEmptyMemberID
	}
	if _, err := time.Parse("2006-01-02", d.WrittenDate); err != nil {
		return ErrInvalidWrittenDate
	}
	return nil
}

// WrittenIn reports whether the entry was written in the given year and month.
func (d Diary) WrittenIn(year int, month time.Month) bool {
	t, err := time.Parse("2006-01-02", d.WrittenDate)
	if err != nil {
		return false
	}
	return t.Year() == year && t.Month() == month
}
