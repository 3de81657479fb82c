package orchestrators

import (
	"context"
	"log/slog"
	"strconv"

	backendDiary "moodiary/internal/adapters/backend/diary"
	"moodiary/internal/adapters/storage/audit"
)

// DiaryDeps holds dependencies for diary mutations.
type DiaryDeps struct {
	DiaryStore backendDiary.Store
	AuditStore audit.Store
}

// DeleteDiaryInput identifies the diary to remove. MemberID is kept for
// the audit trail only.
type DeleteDiaryInput struct {
	DiaryID    int64
	MemberID   string
	ActorEmail string
}

// ExecuteDeleteDiary removes a diary permanently. The console never
// edits diary content, so deletion is the only diary mutation.
func ExecuteDeleteDiary(ctx context.Context, input DeleteDiaryInput, deps DiaryDeps) error {
	if err := deps.DiaryStore.Delete(ctx, input.DiaryID); err != nil {
		slog.Info("diary_event", "event", "delete_failed", "diary_id", input.DiaryID, "error", err.Error())
		return err
	}

	recordAudit(ctx, deps.AuditStore, audit.Entry{
		ActorEmail: input.ActorEmail,
		Action:     audit.ActionDelete,
		EntityKind: "diary",
		EntityID:   strconv.FormatInt(input.DiaryID, 10),
		Detail:     "member " + input.MemberID,
	})
	slog.Info("diary_event", "event", "deleted", "diary_id", input.DiaryID, "member_id", input.MemberID)
	return nil
}
