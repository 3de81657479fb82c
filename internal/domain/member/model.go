package member

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Account statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Domain errors
var (
	ErrEmptyName     = errors.New("member name cannot be empty")
	ErrInvalidEmail  = errors.New("member email must be valid")
	ErrInvalidStatus = errors.New("member status must be 'active' or 'inactive'")
)

// Member represents a service user account as the backend exposes it to the
// admin console. Email doubles as the login identity and is never mutated
// through the console.
type Member struct {
	ID        string
	Email     string
	Name      string
	BirthDate string // YYYY-MM-DD
	Phone     string
	Status    string // active, inactive
}

// Validate checks if the Member has valid data.
// PRE: Member struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return errors.New("member name cannot exceed 100 characters")
	}
	if !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if m.Status != "" && !isValidStatus(m.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsActive returns true if the member account is active.
// INVARIANT: Status field is not mutated
func (m Member) IsActive() bool {
	return m.Status != StatusInactive
}

// ToggledStatus returns the opposite of the current status.
// An empty status is treated as active, so the toggle yields inactive.
func (m Member) ToggledStatus() string {
	if m.Status == StatusInactive {
		return StatusActive
	}
	return StatusInactive
}

func isValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}
