package watch

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler 는 고정 간격 티커로 폴링 패스를 구동한다.
// RunOnce 가 블로킹으로 실행되므로 패스가 겹치는 일은 없다.
type Scheduler struct {
	poller *Poller
	logger *slog.Logger
}

// NewScheduler 는 Scheduler 를 생성한다.
func NewScheduler(poller *Poller, logger *slog.Logger) *Scheduler {
	return &Scheduler{poller: poller, logger: logger}
}

// Start 는 스케줄러를 기동한다. 컨텍스트 취소까지 실행을 계속한다.
// 패스 실패(토큰 발급 실패 포함)는 기록만 하고 다음 주기에 처음부터 재시도한다.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("폴링 스케줄러를 시작했습니다",
		slog.Duration("interval", interval),
	)

	// 기동 직후 1회 실행
	if err := s.poller.RunOnce(ctx); err != nil {
		s.logger.Error("폴링 패스 실행에 실패했습니다",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("폴링 스케줄러를 정지했습니다")
			return
		case <-ticker.C:
			if err := s.poller.RunOnce(ctx); err != nil {
				s.logger.Error("폴링 패스 실행에 실패했습니다",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
