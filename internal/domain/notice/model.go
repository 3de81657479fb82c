package notice

import (
	"errors"
	"strings"
)

// Notice statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Domain errors
var (
	ErrEmptyTitle    = errors.New("notice title cannot be empty")
	ErrEmptyContent  = errors.New("notice content cannot be empty")
	ErrInvalidStatus = errors.New("notice status must be 'active' or 'inactive'")
)

// ValidStatuses contains all valid notice statuses.
var ValidStatuses = []string{StatusActive, StatusInactive}

// Notice represents a service-wide announcement.
// Content supports Markdown formatting; the console renders a safe preview.
type Notice struct {
	ID      int64
	Title   string
	Content string
	Writer  string
	Status  string // active, inactive
}

// Validate checks if the Notice has valid data.
// PRE: Notice struct is populated
// POST: Returns nil if valid, error otherwise
func (n *Notice) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(n.Content) == "" {
		return ErrEmptyContent
	}
	if n.Status != "" && !isValidStatus(n.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsActive returns true if the notice is shown to users.
// INVARIANT: Status field is not mutated
func (n Notice) IsActive() bool {
	return n.Status != StatusInactive
}

// ToggledStatus returns the opposite of the current status.
func (n Notice) ToggledStatus() string {
	if n.Status == StatusInactive {
		return StatusActive
	}
	return StatusInactive
}

func isValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}
