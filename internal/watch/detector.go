// Package watch 는 배송 상태 변화 감지와 알림 디스패치를 담당한다.
// 폴링 패스, 상태 전이 상태기계, 푸시/메시지 로그 이중 경로 기록을 포함한다.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alimbox/alimbox/internal/metrics"
	"github.com/alimbox/alimbox/internal/model"
	"github.com/alimbox/alimbox/internal/predict"
	"github.com/alimbox/alimbox/internal/push"
	"github.com/alimbox/alimbox/internal/repository"
	"github.com/alimbox/alimbox/internal/status"
)

// pushTitle 은 모든 상태 변경 푸시의 제목이다.
const pushTitle = "택배 상태 업데이트"

// ArrivalPredictor 는 도착 시간 예측 추상화이다. *predict.Adapter 가 구현한다.
type ArrivalPredictor interface {
	Predict(carrierID, st string, ref time.Time) (*predict.Prediction, error)
}

// StatusStore 는 구독의 마지막 관측 상태를 영속화하는 추상화이다.
type StatusStore interface {
	UpdateStatus(ctx context.Context, userID, invoice, status string) error
}

// Detector 는 관측 상태와 저장 상태를 비교해 전이를 감지하고,
// 푸시 발송·메시지 로그·상태 영속화의 세 쓰기를 수행한다.
// 세 쓰기는 트랜잭션으로 묶이지 않으며 각각 최대 1회 시도한다.
type Detector struct {
	sender    push.Sender
	predictor ArrivalPredictor
	messages  repository.MessageLogRepository
	store     StatusStore
	collector metrics.MetricsCollector
	logger    *slog.Logger

	// now 는 테스트에서 시각을 주입하기 위한 훅이다.
	now func() time.Time
}

// NewDetector 는 Detector 를 생성한다.
func NewDetector(
	sender push.Sender,
	predictor ArrivalPredictor,
	messages repository.MessageLogRepository,
	store StatusStore,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Detector {
	return &Detector{
		sender:    sender,
		predictor: predictor,
		messages:  messages,
		store:     store,
		collector: collector,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleEvent 는 관측된 정규화 상태 1건을 처리한다.
//
//  1. 저장 상태와 같으면 아무 것도 하지 않는다.
//  2. 이전/신규가 모두 배송완료 동의어이면 푸시도 로그도 남기지 않는다.
//  3. 억제되지 않았으면 본문을 구성해 alert_enabled 에 따라
//     푸시+로그 또는 [알림 OFF] 로그만 남긴다.
//  4. 억제 여부, 푸시 성패와 무관하게 저장 상태는 항상 마지막에 갱신한다.
func (d *Detector) HandleEvent(ctx context.Context, sub *model.Subscription, observedStatus, eventTime string) error {
	if observedStatus == sub.Status {
		d.logger.Debug("상태 변화가 없습니다",
			slog.String("key", sub.Key()),
			slog.String("status", observedStatus),
		)
		return nil
	}

	suppressed := status.IsDelivered(sub.Status) && status.IsDelivered(observedStatus)
	if suppressed {
		d.collector.RecordSuppressed()
		d.logger.Info("배송완료 동의어 반복 전이를 억제합니다",
			slog.String("key", sub.Key()),
			slog.String("prev", sub.Status),
			slog.String("new", observedStatus),
		)
	} else {
		d.collector.RecordStatusChange()
		d.dispatch(ctx, sub, observedStatus, eventTime)
	}

	if err := d.store.UpdateStatus(ctx, sub.UserID, sub.Invoice, observedStatus); err != nil {
		d.logger.Error("구독 상태 영속화에 실패했습니다",
			slog.String("key", sub.Key()),
			slog.String("error", err.Error()),
		)
		return err
	}
	sub.Status = observedStatus

	return nil
}

// dispatch 는 전이 1건의 본문을 구성하고 푸시/메시지 로그 경로로 보낸다.
func (d *Detector) dispatch(ctx context.Context, sub *model.Subscription, observedStatus, eventTime string) {
	body := d.composeBody(sub, observedStatus, eventTime)

	if sub.AlertEnabled {
		if _, err := d.sender.Send(ctx, sub.PushToken, pushTitle, body); err != nil {
			d.collector.RecordPushFailure()
			d.logger.Warn("푸시 발송에 실패했습니다",
				slog.String("key", sub.Key()),
				slog.String("error", err.Error()),
			)
		} else {
			d.collector.RecordPushSuccess()
		}
	} else {
		body = fmt.Sprintf("[알림 OFF] 송장번호 : %s 상태변경 : %s", sub.Invoice, observedStatus)
	}

	entry := &model.MessageEntry{
		UserID:    sub.UserID,
		Invoice:   sub.Invoice,
		Body:      body,
		CreatedAt: d.now(),
	}
	if err := d.messages.Append(ctx, entry); err != nil {
		d.logger.Warn("메시지 로그 기록에 실패했습니다",
			slog.String("key", sub.Key()),
			slog.String("error", err.Error()),
		)
	}
}

// composeBody 는 전이 본문을 구성한다.
// 배송완료 동의어는 배송조회 응답의 이벤트 시각을 그대로 쓰고,
// 그 외 상태는 예측기로 도착 시각을 구한다. 두 경로 모두 실패 시
// 전이를 중단하지 않고 대체 문구로 진행한다.
func (d *Detector) composeBody(sub *model.Subscription, observedStatus, eventTime string) string {
	if status.IsDelivered(observedStatus) {
		parsed, err := time.Parse(time.RFC3339, eventTime)
		if err != nil {
			return fmt.Sprintf("송장번호 : %s\n배송이 완료되었습니다", sub.Invoice)
		}
		return fmt.Sprintf("송장번호 : %s\n%s 배송 완료", sub.Invoice, parsed.Format("01월 02일 15:04"))
	}

	eta := "도착 시간 예측 불가"
	p, err := d.predictor.Predict(sub.CarrierID, observedStatus, d.now())
	if err != nil {
		d.logger.Warn("도착 시간 예측에 실패했습니다",
			slog.String("key", sub.Key()),
			slog.String("error", err.Error()),
		)
	} else {
		arrival := d.now().Add(time.Duration(p.Minutes * float64(time.Minute)))
		eta = arrival.Format("01월 02일 15:04") + " 도착 예상"
	}

	return fmt.Sprintf("송장번호 : %s\n%s : %s", sub.Invoice, observedStatus, eta)
}
