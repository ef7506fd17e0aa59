// Package repository 는 데이터 영속화 인터페이스를 정의한다.
package repository

import (
	"context"

	"github.com/alimbox/alimbox/internal/model"
)

// SubscriptionRepository 는 구독 데이터의 영속화 인터페이스이다.
type SubscriptionRepository interface {
	// FindByKey 는 (user_id, invoice) 로 구독을 조회한다. 없으면 nil 을 반환한다.
	FindByKey(ctx context.Context, userID, invoice string) (*model.Subscription, error)

	// Create 는 구독을 생성한다.
	Create(ctx context.Context, sub *model.Subscription) error

	// UpdateStatus 는 구독의 마지막 관측 상태를 갱신한다.
	UpdateStatus(ctx context.Context, userID, invoice, status string) error

	// UpdateAlertEnabled 는 구독의 알림 on/off 플래그를 갱신한다.
	UpdateAlertEnabled(ctx context.Context, userID, invoice string, enabled bool) error

	// Delete 는 (user_id, invoice) 구독을 삭제한다.
	Delete(ctx context.Context, userID, invoice string) error

	// ListAll 은 전체 구독을 등록 시각 오름차순으로 반환한다.
	ListAll(ctx context.Context) ([]*model.Subscription, error)
}

// MessageLogRepository 는 구독별 append-only 메시지 로그의 영속화 인터페이스이다.
type MessageLogRepository interface {
	// Append 는 메시지 로그 항목을 추가한다.
	Append(ctx context.Context, entry *model.MessageEntry) error

	// ListByKey 는 (user_id, invoice) 의 메시지 로그를 시간순으로 반환한다.
	ListByKey(ctx context.Context, userID, invoice string) ([]*model.MessageEntry, error)

	// DeleteByKey 는 (user_id, invoice) 의 메시지 로그를 전부 삭제한다.
	DeleteByKey(ctx context.Context, userID, invoice string) error
}

// DeliverySnapshotRepository 는 배송완료 스냅샷의 영속화 인터페이스이다.
type DeliverySnapshotRepository interface {
	// FindByInvoice 는 송장번호로 스냅샷을 조회한다. 없으면 nil 을 반환한다.
	FindByInvoice(ctx context.Context, invoice string) (*model.DeliverySnapshot, error)

	// Create 는 스냅샷을 저장한다. 동일 송장의 중복 저장은 호출 측에서 막는다.
	Create(ctx context.Context, snapshot *model.DeliverySnapshot) error
}
