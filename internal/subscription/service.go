// Package subscription 은 배송 알림 구독의 등록/해지/토글과
// 폴링 패스가 공유하는 인프로세스 캐시를 관리한다.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alimbox/alimbox/internal/model"
	"github.com/alimbox/alimbox/internal/repository"
)

// CarrierResolver 는 송장번호로 택배사를 감지하는 추상화이다.
// 감지 실패는 구독을 막지 않는 best-effort 동작이다.
type CarrierResolver interface {
	ResolveCarrier(ctx context.Context, invoice string) (*model.Carrier, error)
}

// Service 는 구독 저장소 위에 RWMutex 로 보호되는 캐시를 둔다.
// 모든 변경은 이 서비스의 메서드를 통해서만 이루어진다.
type Service struct {
	mu       sync.RWMutex
	cache    map[string]*model.Subscription
	repo     repository.SubscriptionRepository
	messages repository.MessageLogRepository
	resolver CarrierResolver
	logger   *slog.Logger
}

// NewService 는 Service 를 생성한다. resolver 는 nil 일 수 있다.
func NewService(repo repository.SubscriptionRepository, messages repository.MessageLogRepository, resolver CarrierResolver, logger *slog.Logger) *Service {
	return &Service{
		cache:    make(map[string]*model.Subscription),
		repo:     repo,
		messages: messages,
		resolver: resolver,
		logger:   logger,
	}
}

// Reload 는 저장소의 전체 구독을 캐시로 읽어 들인다. 기동 시 1회 호출한다.
func (s *Service) Reload(ctx context.Context) error {
	subs, err := s.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("구독 캐시 적재에 실패했습니다: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*model.Subscription, len(subs))
	for _, sub := range subs {
		s.cache[sub.Key()] = sub
	}

	s.logger.Info("구독 캐시를 적재했습니다",
		slog.Int("count", len(subs)),
	)
	return nil
}

// Subscribe 는 새 구독을 등록한다.
// 필수 항목 누락은 MissingField, 기존 키 재등록은 DuplicateSubscription 에러이다.
// carrier_id 가 비어 있으면 택배사 감지를 시도하고, 실패해도 등록은 진행한다.
func (s *Service) Subscribe(ctx context.Context, sub *model.Subscription) error {
	var missing []string
	if sub.Invoice == "" {
		missing = append(missing, "invoice")
	}
	if sub.UserID == "" {
		missing = append(missing, "user_id")
	}
	if sub.PushToken == "" {
		missing = append(missing, "token")
	}
	if len(missing) > 0 {
		return model.NewMissingFieldError(strings.Join(missing, ", "))
	}

	s.mu.RLock()
	_, exists := s.cache[sub.Key()]
	s.mu.RUnlock()
	if exists {
		return model.NewDuplicateSubscriptionError()
	}

	existing, err := s.repo.FindByKey(ctx, sub.UserID, sub.Invoice)
	if err != nil {
		return err
	}
	if existing != nil {
		return model.NewDuplicateSubscriptionError()
	}

	if sub.CarrierID == "" && s.resolver != nil {
		carrier, err := s.resolver.ResolveCarrier(ctx, sub.Invoice)
		if err != nil {
			s.logger.Warn("택배사 감지에 실패했습니다",
				slog.String("invoice", sub.Invoice),
				slog.String("error", err.Error()),
			)
		} else if carrier != nil {
			sub.CarrierID = carrier.ID
		}
	}

	if sub.SubscribedAt.IsZero() {
		sub.SubscribedAt = time.Now()
	}
	sub.AlertEnabled = true

	if err := s.repo.Create(ctx, sub); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[sub.Key()] = sub
	s.mu.Unlock()

	s.logger.Info("구독을 등록했습니다",
		slog.String("key", sub.Key()),
		slog.String("carrier_id", sub.CarrierID),
	)
	return nil
}

// Unsubscribe 는 구독과 해당 키의 메시지 로그를 함께 삭제한다.
func (s *Service) Unsubscribe(ctx context.Context, userID, invoice string) error {
	key := userID + "_" + invoice

	s.mu.RLock()
	_, exists := s.cache[key]
	s.mu.RUnlock()
	if !exists {
		return model.NewSubscriptionNotFoundError(userID, invoice)
	}

	if err := s.repo.Delete(ctx, userID, invoice); err != nil {
		return err
	}
	if err := s.messages.DeleteByKey(ctx, userID, invoice); err != nil {
		s.logger.Warn("메시지 로그 삭제에 실패했습니다",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	s.logger.Info("구독을 해지했습니다",
		slog.String("key", key),
	)
	return nil
}

// Toggle 은 알림 on/off 플래그를 뒤집고 새 값을 반환한다.
func (s *Service) Toggle(ctx context.Context, userID, invoice string) (bool, error) {
	key := userID + "_" + invoice

	s.mu.RLock()
	sub, exists := s.cache[key]
	var enabled bool
	if exists {
		enabled = sub.AlertEnabled
	}
	s.mu.RUnlock()
	if !exists {
		return false, model.NewSubscriptionNotFoundError(userID, invoice)
	}

	newValue := !enabled
	if err := s.repo.UpdateAlertEnabled(ctx, userID, invoice, newValue); err != nil {
		return false, err
	}

	s.mu.Lock()
	if sub, ok := s.cache[key]; ok {
		sub.AlertEnabled = newValue
	}
	s.mu.Unlock()

	return newValue, nil
}

// UpdateStatus 는 구독의 마지막 관측 상태를 갱신한다. 폴링 패스가 호출한다.
func (s *Service) UpdateStatus(ctx context.Context, userID, invoice, status string) error {
	if err := s.repo.UpdateStatus(ctx, userID, invoice, status); err != nil {
		return err
	}

	s.mu.Lock()
	if sub, ok := s.cache[userID+"_"+invoice]; ok {
		sub.Status = status
	}
	s.mu.Unlock()

	return nil
}

// Snapshot 은 캐시의 구독 목록 사본을 반환한다. 폴링 패스가 순회에 사용한다.
func (s *Service) Snapshot() []*model.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := make([]*model.Subscription, 0, len(s.cache))
	for _, sub := range s.cache {
		copied := *sub
		subs = append(subs, &copied)
	}
	return subs
}

// List 는 저장소의 전체 구독을 반환한다.
func (s *Service) List(ctx context.Context) ([]*model.Subscription, error) {
	return s.repo.ListAll(ctx)
}

// Messages 는 (user_id, invoice) 의 메시지 로그를 시간순으로 반환한다.
func (s *Service) Messages(ctx context.Context, userID, invoice string) ([]*model.MessageEntry, error) {
	return s.messages.ListByKey(ctx, userID, invoice)
}
