package orchestrators

import (
	"context"
	"log/slog"
	"strconv"

	backendNotice "moodiary/internal/adapters/backend/notice"
	"moodiary/internal/adapters/storage/audit"
	domain "moodiary/internal/domain/notice"
)

// NoticeDeps holds dependencies for notice mutations.
type NoticeDeps struct {
	NoticeStore backendNotice.Store
	AuditStore  audit.Store
}

// CreateNoticeInput carries the fields of a new notice.
type CreateNoticeInput struct {
	Title      string
	Content    string
	Writer     string
	ActorEmail string
}

// ExecuteCreateNotice validates and publishes a new notice.
// POST: Returned notice carries the backend-assigned ID when the backend
// echoed the created entity
func ExecuteCreateNotice(ctx context.Context, input CreateNoticeInput, deps NoticeDeps) (domain.Notice, error) {
	n := domain.Notice{
		Title:   input.Title,
		Content: input.Content,
		Writer:  input.Writer,
		Status:  domain.StatusActive,
	}
	if err := n.Validate(); err != nil {
		return domain.Notice{}, err
	}

	confirmed, err := deps.NoticeStore.Create(ctx, n)
	if err != nil {
		slog.Info("notice_event", "event", "create_failed", "title", input.Title, "error", err.Error())
		return domain.Notice{}, err
	}
	if confirmed != nil {
		n = *confirmed
	}

	recordAudit(ctx, deps.AuditStore, audit.Entry{
		ActorEmail: input.ActorEmail,
		Action:     audit.ActionCreate,
		EntityKind: "notice",
		EntityID:   strconv.FormatInt(n.ID, 10),
		Detail:     n.Title,
	})
	slog.Info("notice_event", "event", "created", "notice_id", n.ID, "title", n.Title)

	return n, nil
}

// EditNoticeInput carries the editable notice fields.
type EditNoticeInput struct {
	NoticeID   int64
	Title      string
	Content    string
	ActorEmail string
}

// ExecuteEditNotice merges the editable fields over the current notice
// and pushes the full payload, preserving the stored status.
func ExecuteEditNotice(ctx context.Context, input EditNoticeInput, deps NoticeDeps) (domain.Notice, error) {
	current, err := deps.NoticeStore.GetByID(ctx, input.NoticeID)
	if err != nil {
		return domain.Notice{}, err
	}

	merged := current
	merged.Title = input.Title
	merged.Content = input.Content
	if err := merged.Validate(); err != nil {
		return domain.Notice{}, err
	}

	confirmed, err := deps.NoticeStore.Update(ctx, merged)
	if err != nil {
		slog.Info("notice_event", "event", "update_failed", "notice_id", input.NoticeID, "error", err.Error())
		return domain.Notice{}, err
	}
	if confirmed != nil {
		merged = *confirmed
	}

	recordAudit(ctx, deps.AuditStore, audit.Entry{
		ActorEmail: input.ActorEmail,
		Action:     audit.ActionUpdate,
		EntityKind: "notice",
		EntityID:   strconv.FormatInt(merged.ID, 10),
		Detail:     merged.Title,
	})
	slog.Info("notice_event", "event", "updated", "notice_id", merged.ID)

	return merged, nil
}

// DeleteNoticeInput identifies the notice to remove.
type DeleteNoticeInput struct {
	NoticeID   int64
	ActorEmail string
}

// ExecuteDeleteNotice removes a notice permanently.
func ExecuteDeleteNotice(ctx context.Context, input DeleteNoticeInput, deps NoticeDeps) error {
	if err := deps.NoticeStore.Delete(ctx, input.NoticeID); err != nil {
		slog.Info("notice_event", "event", "delete_failed", "notice_id", input.NoticeID, "error", err.Error())
		return err
	}

	recordAudit(ctx, deps.AuditStore, audit.Entry{
		ActorEmail: input.ActorEmail,
		Action:     audit.ActionDelete,
		EntityKind: "notice",
		EntityID:   strconv.FormatInt(input.NoticeID, 10),
	})
	slog.Info("notice_event", "event", "deleted", "notice_id", input.NoticeID)
	return nil
}

// ToggleNoticeStatusInput carries an already-flipped notice row.
type ToggleNoticeStatusInput struct {
	Notice     domain.Notice
	ActorEmail string
}

// ExecuteToggleNoticeStatus commits a status flip with the full row as
// payload.
// POST: Returned pointer is the server-confirmed row, nil on an empty
// success body; any error means the caller must roll the flip back
func ExecuteToggleNoticeStatus(ctx context.Context, input ToggleNoticeStatusInput, deps NoticeDeps) (*domain.Notice, error) {
	confirmed, err := deps.NoticeStore.Update(ctx, input.Notice)
	if err != nil {
		slog.Info("notice_event", "event", "toggle_failed", "notice_id", input.Notice.ID, "error", err.Error())
		return nil, err
	}

	recordAudit(ctx, deps.AuditStore, audit.Entry{
		ActorEmail: input.ActorEmail,
		Action:     audit.ActionToggleStatus,
		EntityKind: "notice",
		EntityID:   strconv.FormatInt(input.Notice.ID, 10),
		Detail:     input.Notice.Status,
	})
	slog.Info("notice_event", "event", "status_toggled", "notice_id", input.Notice.ID, "status", input.Notice.Status)

	return confirmed, nil
}
