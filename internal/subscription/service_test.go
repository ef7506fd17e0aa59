package subscription

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alimbox/alimbox/internal/model"
)

// mockSubscriptionRepo 는 테스트용 구독 리포지토리 목이다.
type mockSubscriptionRepo struct {
	findByKeyFunc          func(ctx context.Context, userID, invoice string) (*model.Subscription, error)
	createFunc             func(ctx context.Context, sub *model.Subscription) error
	updateStatusFunc       func(ctx context.Context, userID, invoice, status string) error
	updateAlertEnabledFunc func(ctx context.Context, userID, invoice string, enabled bool) error
	deleteFunc             func(ctx context.Context, userID, invoice string) error
	listAllFunc            func(ctx context.Context) ([]*model.Subscription, error)
}

func (m *mockSubscriptionRepo) FindByKey(ctx context.Context, userID, invoice string) (*model.Subscription, error) {
	if m.findByKeyFunc != nil {
		return m.findByKeyFunc(ctx, userID, invoice)
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) Create(ctx context.Context, sub *model.Subscription) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepo) UpdateStatus(ctx context.Context, userID, invoice, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, userID, invoice, status)
	}
	return nil
}

func (m *mockSubscriptionRepo) UpdateAlertEnabled(ctx context.Context, userID, invoice string, enabled bool) error {
	if m.updateAlertEnabledFunc != nil {
		return m.updateAlertEnabledFunc(ctx, userID, invoice, enabled)
	}
	return nil
}

func (m *mockSubscriptionRepo) Delete(ctx context.Context, userID, invoice string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, invoice)
	}
	return nil
}

func (m *mockSubscriptionRepo) ListAll(ctx context.Context) ([]*model.Subscription, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return nil, nil
}

// mockMessageRepo 는 테스트용 메시지 로그 리포지토리 목이다.
type mockMessageRepo struct {
	appendFunc      func(ctx context.Context, entry *model.MessageEntry) error
	listByKeyFunc   func(ctx context.Context, userID, invoice string) ([]*model.MessageEntry, error)
	deleteByKeyFunc func(ctx context.Context, userID, invoice string) error
}

func (m *mockMessageRepo) Append(ctx context.Context, entry *model.MessageEntry) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, entry)
	}
	return nil
}

func (m *mockMessageRepo) ListByKey(ctx context.Context, userID, invoice string) ([]*model.MessageEntry, error) {
	if m.listByKeyFunc != nil {
		return m.listByKeyFunc(ctx, userID, invoice)
	}
	return nil, nil
}

func (m *mockMessageRepo) DeleteByKey(ctx context.Context, userID, invoice string) error {
	if m.deleteByKeyFunc != nil {
		return m.deleteByKeyFunc(ctx, userID, invoice)
	}
	return nil
}

// mockResolver 는 테스트용 택배사 감지 목이다.
type mockResolver struct {
	resolveFunc func(ctx context.Context, invoice string) (*model.Carrier, error)
}

func (m *mockResolver) ResolveCarrier(ctx context.Context, invoice string) (*model.Carrier, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, invoice)
	}
	return nil, nil
}

func newTestService(repo *mockSubscriptionRepo, messages *mockMessageRepo, resolver CarrierResolver) *Service {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	return NewService(repo, messages, resolver, logger)
}

func TestSubscribe_MissingFields(t *testing.T) {
	svc := newTestService(&mockSubscriptionRepo{}, &mockMessageRepo{}, nil)

	err := svc.Subscribe(context.Background(), &model.Subscription{Invoice: "123"})
	if err == nil {
		t.Fatal("필수 항목 누락은 에러를 반환해야 한다")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeMissingField {
		t.Errorf("MissingField 에러여야 한다: %v", err)
	}
}

func TestSubscribe_Duplicate(t *testing.T) {
	svc := newTestService(&mockSubscriptionRepo{}, &mockMessageRepo{}, nil)
	sub := &model.Subscription{UserID: "u1", Invoice: "123", PushToken: "tok"}

	if err := svc.Subscribe(context.Background(), sub); err != nil {
		t.Fatalf("1건째 등록이 실패했다: %v", err)
	}

	err := svc.Subscribe(context.Background(), &model.Subscription{UserID: "u1", Invoice: "123", PushToken: "tok2"})
	if err == nil {
		t.Fatal("기존 키 재등록은 에러를 반환해야 한다")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateSubscription {
		t.Errorf("DuplicateSubscription 에러여야 한다: %v", err)
	}
}

// 저장소에만 있고 캐시에 없는 키도 중복으로 거부되어야 한다.
func TestSubscribe_DuplicateInRepository(t *testing.T) {
	repo := &mockSubscriptionRepo{
		findByKeyFunc: func(ctx context.Context, userID, invoice string) (*model.Subscription, error) {
			return &model.Subscription{UserID: userID, Invoice: invoice}, nil
		},
	}
	svc := newTestService(repo, &mockMessageRepo{}, nil)

	err := svc.Subscribe(context.Background(), &model.Subscription{UserID: "u1", Invoice: "123", PushToken: "tok"})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateSubscription {
		t.Errorf("DuplicateSubscription 에러여야 한다: %v", err)
	}
}

func TestSubscribe_DetectsCarrierWhenEmpty(t *testing.T) {
	resolver := &mockResolver{
		resolveFunc: func(ctx context.Context, invoice string) (*model.Carrier, error) {
			return &model.Carrier{ID: "kr.cjlogistics", Name: "CJ대한통운"}, nil
		},
	}
	svc := newTestService(&mockSubscriptionRepo{}, &mockMessageRepo{}, resolver)

	sub := &model.Subscription{UserID: "u1", Invoice: "123", PushToken: "tok"}
	if err := svc.Subscribe(context.Background(), sub); err != nil {
		t.Fatalf("Subscribe 가 에러를 반환했다: %v", err)
	}
	if sub.CarrierID != "kr.cjlogistics" {
		t.Errorf("CarrierID = %q, want kr.cjlogistics", sub.CarrierID)
	}
}

// 택배사 감지 실패는 등록을 막지 않는다.
func TestSubscribe_DetectionFailureDoesNotBlock(t *testing.T) {
	resolver := &mockResolver{
		resolveFunc: func(ctx context.Context, invoice string) (*model.Carrier, error) {
			return nil, errors.New("감지 실패")
		},
	}
	svc := newTestService(&mockSubscriptionRepo{}, &mockMessageRepo{}, resolver)

	sub := &model.Subscription{UserID: "u1", Invoice: "123", PushToken: "tok"}
	if err := svc.Subscribe(context.Background(), sub); err != nil {
		t.Fatalf("감지 실패에도 등록은 성공해야 한다: %v", err)
	}
	if sub.CarrierID != "" {
		t.Errorf("CarrierID = %q, want empty", sub.CarrierID)
	}
}

func TestUnsubscribe_RemovesSubscriptionAndMessages(t *testing.T) {
	var deletedMessages bool
	messages := &mockMessageRepo{
		deleteByKeyFunc: func(ctx context.Context, userID, invoice string) error {
			deletedMessages = true
			return nil
		},
	}
	svc := newTestService(&mockSubscriptionRepo{}, messages, nil)

	sub := &model.Subscription{UserID: "u1", Invoice: "123", PushToken: "tok"}
	if err := svc.Subscribe(context.Background(), sub); err != nil {
		t.Fatalf("등록에 실패했다: %v", err)
	}

	if err := svc.Unsubscribe(context.Background(), "u1", "123"); err != nil {
		t.Fatalf("Unsubscribe 가 에러를 반환했다: %v", err)
	}
	if !deletedMessages {
		t.Error("메시지 로그도 함께 삭제되어야 한다")
	}
	if len(svc.Snapshot()) != 0 {
		t.Error("캐시에서도 제거되어야 한다")
	}
}

func TestUnsubscribe_NotFound(t *testing.T) {
	svc := newTestService(&mockSubscriptionRepo{}, &mockMessageRepo{}, nil)

	err := svc.Unsubscribe(context.Background(), "u1", "123")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeSubscriptionNotFound {
		t.Errorf("SubscriptionNotFound 에러여야 한다: %v", err)
	}
}

func TestToggle_FlipsFlag(t *testing.T) {
	svc := newTestService(&mockSubscriptionRepo{}, &mockMessageRepo{}, nil)

	sub := &model.Subscription{UserID: "u1", Invoice: "123", PushToken: "tok"}
	if err := svc.Subscribe(context.Background(), sub); err != nil {
		t.Fatalf("등록에 실패했다: %v", err)
	}

	enabled, err := svc.Toggle(context.Background(), "u1", "123")
	if err != nil {
		t.Fatalf("Toggle 이 에러를 반환했다: %v", err)
	}
	if enabled {
		t.Error("등록 직후 토글이면 false 가 되어야 한다")
	}

	enabled, err = svc.Toggle(context.Background(), "u1", "123")
	if err != nil {
		t.Fatalf("Toggle 이 에러를 반환했다: %v", err)
	}
	if !enabled {
		t.Error("두 번째 토글이면 true 로 복귀해야 한다")
	}
}

func TestToggle_NotFound(t *testing.T) {
	svc := newTestService(&mockSubscriptionRepo{}, &mockMessageRepo{}, nil)

	_, err := svc.Toggle(context.Background(), "u1", "999")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeSubscriptionNotFound {
		t.Errorf("SubscriptionNotFound 에러여야 한다: %v", err)
	}
}

func TestUpdateStatus_UpdatesCache(t *testing.T) {
	svc := newTestService(&mockSubscriptionRepo{}, &mockMessageRepo{}, nil)

	sub := &model.Subscription{UserID: "u1", Invoice: "123", PushToken: "tok"}
	if err := svc.Subscribe(context.Background(), sub); err != nil {
		t.Fatalf("등록에 실패했다: %v", err)
	}

	if err := svc.UpdateStatus(context.Background(), "u1", "123", "간선상차"); err != nil {
		t.Fatalf("UpdateStatus 가 에러를 반환했다: %v", err)
	}

	snap := svc.Snapshot()
	if len(snap) != 1 || snap[0].Status != "간선상차" {
		t.Errorf("캐시 상태가 갱신되어야 한다: %+v", snap)
	}
}

func TestReload_PopulatesCache(t *testing.T) {
	repo := &mockSubscriptionRepo{
		listAllFunc: func(ctx context.Context) ([]*model.Subscription, error) {
			return []*model.Subscription{
				{UserID: "u1", Invoice: "1", PushToken: "t1", SubscribedAt: time.Now()},
				{UserID: "u2", Invoice: "2", PushToken: "t2", SubscribedAt: time.Now()},
			}, nil
		},
	}
	svc := newTestService(repo, &mockMessageRepo{}, nil)

	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload 가 에러를 반환했다: %v", err)
	}
	if len(svc.Snapshot()) != 2 {
		t.Errorf("캐시 건수 = %d, want 2", len(svc.Snapshot()))
	}
}

// Snapshot 은 사본을 반환하므로 수정이 캐시에 전파되지 않아야 한다.
func TestSnapshot_ReturnsCopies(t *testing.T) {
	svc := newTestService(&mockSubscriptionRepo{}, &mockMessageRepo{}, nil)

	sub := &model.Subscription{UserID: "u1", Invoice: "123", PushToken: "tok"}
	if err := svc.Subscribe(context.Background(), sub); err != nil {
		t.Fatalf("등록에 실패했다: %v", err)
	}

	snap := svc.Snapshot()
	snap[0].Status = "오염된상태"

	fresh := svc.Snapshot()
	if fresh[0].Status == "오염된상태" {
		t.Error("Snapshot 의 수정이 캐시에 전파되면 안 된다")
	}
}
