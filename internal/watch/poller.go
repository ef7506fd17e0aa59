package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/alimbox/alimbox/internal/metrics"
	"github.com/alimbox/alimbox/internal/model"
	"github.com/alimbox/alimbox/internal/security"
	"github.com/alimbox/alimbox/internal/status"
)

// Tracker 는 폴링 패스가 쓰는 배송조회 추상화이다. *tracking.Client 가 구현한다.
type Tracker interface {
	Authenticate(ctx context.Context) (string, error)
	FetchLatestEvent(ctx context.Context, carrierID, invoice, token string) (*model.TrackEvent, error)
}

// SubscriptionSource 는 폴링 대상 구독 목록의 공급자이다.
type SubscriptionSource interface {
	Snapshot() []*model.Subscription
}

// Poller 는 전체 구독에 대한 폴링 패스 1회를 수행한다.
// 구독은 순차 처리되며, 개별 실패는 기록하고 다음 구독으로 넘어간다.
// 토큰 발급 실패만이 패스 전체를 중단시킨다.
type Poller struct {
	source    SubscriptionSource
	tracker   Tracker
	detector  *Detector
	sanitizer *security.ContentSanitizer
	collector metrics.MetricsCollector
	logger    *slog.Logger
}

// NewPoller 는 Poller 를 생성한다.
func NewPoller(
	source SubscriptionSource,
	tracker Tracker,
	detector *Detector,
	sanitizer *security.ContentSanitizer,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		source:    source,
		tracker:   tracker,
		detector:  detector,
		sanitizer: sanitizer,
		collector: collector,
		logger:    logger,
	}
}

// RunOnce 는 폴링 패스를 1회 수행한다.
// 토큰은 패스마다 새로 발급하며 주기 간에 재사용하지 않는다.
func (p *Poller) RunOnce(ctx context.Context) error {
	start := time.Now()
	defer func() {
		p.collector.RecordPassDuration(time.Since(start))
	}()

	subs := p.source.Snapshot()
	if len(subs) == 0 {
		p.logger.Debug("폴링 대상 구독이 없습니다")
		return nil
	}

	token, err := p.tracker.Authenticate(ctx)
	if err != nil {
		p.collector.RecordPollError("auth")
		p.logger.Error("토큰 발급에 실패해 패스를 중단합니다",
			slog.String("error", err.Error()),
		)
		return err
	}

	p.logger.Info("폴링 패스를 시작합니다",
		slog.Int("subscription_count", len(subs)),
	)

	for _, sub := range subs {
		if sub.CarrierID == "" {
			p.logger.Debug("택배사 미지정 구독을 건너뜁니다",
				slog.String("key", sub.Key()),
			)
			continue
		}

		p.collector.RecordPoll()

		event, err := p.tracker.FetchLatestEvent(ctx, sub.CarrierID, sub.Invoice, token)
		if err != nil {
			p.collector.RecordPollError("tracking")
			p.logger.Warn("배송 이벤트 조회에 실패해 해당 구독을 건너뜁니다",
				slog.String("key", sub.Key()),
				slog.String("error", err.Error()),
			)
			continue
		}

		observed := status.Normalize(p.sanitizer.SanitizeStatusName(event.StatusName))
		if err := p.detector.HandleEvent(ctx, sub, observed, event.Time); err != nil {
			p.collector.RecordPollError("persist")
			p.logger.Warn("상태 전이 처리에 실패해 해당 구독을 건너뜁니다",
				slog.String("key", sub.Key()),
				slog.String("error", err.Error()),
			)
		}
	}

	p.logger.Info("폴링 패스를 완료했습니다",
		slog.Int("subscription_count", len(subs)),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return nil
}
