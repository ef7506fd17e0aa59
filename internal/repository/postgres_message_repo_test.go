package repository

import (
	"testing"
	"time"

	"github.com/alimbox/alimbox/internal/model"
)

// PostgresMessageRepo 가 MessageLogRepository 인터페이스를 만족하는지 검증
func TestPostgresMessageRepo_ImplementsInterface(t *testing.T) {
	var _ MessageLogRepository = (*PostgresMessageRepo)(nil)
}

// PostgresSnapshotRepo 가 DeliverySnapshotRepository 인터페이스를 만족하는지 검증
func TestPostgresSnapshotRepo_ImplementsInterface(t *testing.T) {
	var _ DeliverySnapshotRepository = (*PostgresSnapshotRepo)(nil)
}

// MessageEntry 모델 필드가 올바르게 구성되는지 검증
func TestPostgresMessageRepo_MessageEntryModel_Fields(t *testing.T) {
	now := time.Now()
	entry := &model.MessageEntry{
		UserID:    "user-1",
		Invoice:   "1234567890",
		Body:      "송장번호 : 1234567890\n간선상차 : 간선하차",
		CreatedAt: now,
	}

	if entry.UserID != "user-1" {
		t.Errorf("entry.UserID = %q, want %q", entry.UserID, "user-1")
	}
	if entry.Invoice != "1234567890" {
		t.Errorf("entry.Invoice = %q, want %q", entry.Invoice, "1234567890")
	}
	if !entry.CreatedAt.Equal(now) {
		t.Errorf("entry.CreatedAt = %v, want %v", entry.CreatedAt, now)
	}
}
