package repository

import (
	"testing"
	"time"

	"github.com/alimbox/alimbox/internal/model"
)

// PostgresSubscriptionRepo 가 SubscriptionRepository 인터페이스를 만족하는지 검증
func TestPostgresSubscriptionRepo_ImplementsInterface(t *testing.T) {
	var _ SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)
}

// NewPostgresSubscriptionRepo 가 올바르게 초기화되는지 검증
func TestNewPostgresSubscriptionRepo_Initializes(t *testing.T) {
	repo := NewPostgresSubscriptionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// Subscription 모델 필드와 복합 키가 올바르게 구성되는지 검증
func TestPostgresSubscriptionRepo_SubscriptionModel_Fields(t *testing.T) {
	now := time.Now()
	sub := &model.Subscription{
		UserID:       "user-1",
		Invoice:      "1234567890",
		PushToken:    "fcm-token",
		CarrierID:    "kr.cjlogistics",
		Status:       "간선상차",
		AlertEnabled: true,
		SubscribedAt: now,
	}

	if sub.Key() != "user-1_1234567890" {
		t.Errorf("sub.Key() = %q, want %q", sub.Key(), "user-1_1234567890")
	}
	if sub.CarrierID != "kr.cjlogistics" {
		t.Errorf("sub.CarrierID = %q, want %q", sub.CarrierID, "kr.cjlogistics")
	}
	if !sub.AlertEnabled {
		t.Error("sub.AlertEnabled = false, want true")
	}
}
