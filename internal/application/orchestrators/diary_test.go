package orchestrators

import (
	"context"
	"errors"
	"testing"

	"moodiary/internal/adapters/storage/audit"
	domain "moodiary/internal/domain/diary"
)

// mockDiaryStore implements diary.Store for testing.
type mockDiaryStore struct {
	diaries   map[int64]domain.Diary
	deleteErr error
}

func newMockDiaryStore(diaries ...domain.Diary) *mockDiaryStore {
	m := &mockDiaryStore{diaries: make(map[int64]domain.Diary)}
	for _, d := range diaries {
		m.diaries[d.DiaryID] = d
	}
	return m
}

func (m *mockDiaryStore) ListByMonth(_ context.Context, memberID string, year, month int) ([]domain.Diary, error) {
	return nil, nil
}

func (m *mockDiaryStore) GetByID(_ context.Context, id int64) (domain.Diary, error) {
	d, ok := m.diaries[id]
	if !ok {
		return domain.Diary{}, errors.New("not found")
	}
	return d, nil
}

func (m *mockDiaryStore) Delete(_ context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.diaries, id)
	return nil
}

func TestExecuteDeleteDiary(t *testing.T) {
	store := newMockDiaryStore(domain.Diary{DiaryID: 42, MemberID: "m-001"})
	audits := &mockAuditStore{}

	err := ExecuteDeleteDiary(context.Background(), DeleteDiaryInput{
		DiaryID:    42,
		MemberID:   "m-001",
		ActorEmail: "admin@moodiary.app",
	}, DiaryDeps{DiaryStore: store, AuditStore: audits})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.diaries[42]; ok {
		t.Error("expected diary removed")
	}
	if audits.lastAction() != audit.ActionDelete {
		t.Errorf("expected delete audit entry, got %q", audits.lastAction())
	}
	last := audits.entries[len(audits.entries)-1]
	if last.EntityKind != "diary" || last.EntityID != "42" {
		t.Errorf("expected diary audit target, got %+v", last)
	}
}

func TestExecuteDeleteDiary_ErrorSurfaced(t *testing.T) {
	store := newMockDiaryStore()
	store.deleteErr = errors.New("backend down")
	audits := &mockAuditStore{}

	err := ExecuteDeleteDiary(context.Background(), DeleteDiaryInput{DiaryID: 42}, DiaryDeps{
		DiaryStore: store,
		AuditStore: audits,
	})
	if err == nil {
		t.Fatal("expected error surfaced")
	}
	if len(audits.entries) != 0 {
		t.Error("expected no audit entry on failed delete")
	}
}
