package audit

import (
	"context"
	"time"
)

// Actions recorded in the audit log.
const (
	ActionLogin        = "login"
	ActionLogout       = "logout"
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionToggleStatus = "toggle_status"
)

// Entry is one recorded admin action.
type Entry struct {
	ID         string
	ActorEmail string
	Action     string
	EntityKind string // member, notice, diary; empty for auth actions
	EntityID   string
	Detail     string
	CreatedAt  time.Time
}

// Store persists the admin action audit log.
type Store interface {
	Append(ctx context.Context, e Entry) error
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}
