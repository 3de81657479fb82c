package orchestrators

import (
	"context"
	"log/slog"

	backendMember "moodiary/internal/adapters/backend/member"
	"moodiary/internal/adapters/storage/audit"
	domain "moodiary/internal/domain/member"
)

// UpdateMemberInput carries the editable profile fields. Email is
// identity and never part of an update.
type UpdateMemberInput struct {
	MemberID    string
	Name        string
	BirthDate   string
	Phone       string
	NewPassword string
	ActorEmail  string
}

// UpdateMemberDeps holds dependencies for member updates.
type UpdateMemberDeps struct {
	MemberStore backendMember.Store
	AuditStore  audit.Store
}

// ExecuteUpdateMember merges the editable fields over the current member
// and pushes the full payload to the backend.
// PRE: MemberID identifies an existing member
// POST: Returned member reflects the server-confirmed state when the
// backend echoed one, the merged draft otherwise
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps UpdateMemberDeps) (domain.Member, error) {
	current, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return domain.Member{}, err
	}

	merged := current
	merged.Name = input.Name
	merged.BirthDate = input.BirthDate
	merged.Phone = input.Phone
	if err := merged.Validate(); err != nil {
		return domain.Member{}, err
	}

	confirmed, err := deps.MemberStore.Update(ctx, merged, input.NewPassword)
	if err != nil {
		slog.Info("member_event", "event", "update_failed", "member_id", input.MemberID, "error", err.Error())
		return domain.Member{}, err
	}
	if confirmed != nil {
		merged = *confirmed
	}

	recordAudit(ctx, deps.AuditStore, audit.Entry{
		ActorEmail: input.ActorEmail,
		Action:     audit.ActionUpdate,
		EntityKind: "member",
		EntityID:   merged.ID,
	})
	slog.Info("member_event", "event", "updated", "member_id", merged.ID, "password_changed", input.NewPassword != "")

	return merged, nil
}

// ToggleMemberStatusInput carries an already-flipped member row. The
// caller flips the status before committing so the list can render the
// new state without waiting on the backend.
type ToggleMemberStatusInput struct {
	Member     domain.Member
	ActorEmail string
}

// ExecuteToggleMemberStatus commits a status flip through the general
// update endpoint with the full row as payload.
// POST: Returned pointer is the server-confirmed row, nil on an empty
// success body; any error means the caller must roll the flip back
func ExecuteToggleMemberStatus(ctx context.Context, input ToggleMemberStatusInput, deps UpdateMemberDeps) (*domain.Member, error) {
	confirmed, err := deps.MemberStore.Update(ctx, input.Member, "")
	if err != nil {
		slog.Info("member_event", "event", "toggle_failed", "member_id", input.Member.ID, "error", err.Error())
		return nil, err
	}

	recordAudit(ctx, deps.AuditStore, audit.Entry{
		ActorEmail: input.ActorEmail,
		Action:     audit.ActionToggleStatus,
		EntityKind: "member",
		EntityID:   input.Member.ID,
		Detail:     input.Member.Status,
	})
	slog.Info("member_event", "event", "status_toggled", "member_id", input.Member.ID, "status", input.Member.Status)

	return confirmed, nil
}
