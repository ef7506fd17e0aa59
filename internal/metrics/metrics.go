// Package metrics 는 Prometheus 메트릭 수집과 노출을 제공한다.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector 는 메트릭 수집 인터페이스이다.
// 폴링 패스와 디스패처에서 사용한다.
type MetricsCollector interface {
	RecordPoll()
	RecordPollError(reason string)
	RecordStatusChange()
	RecordSuppressed()
	RecordPushSuccess()
	RecordPushFailure()
	RecordPassDuration(duration time.Duration)
}

// Collector 는 Prometheus 메트릭을 수집하는 구현이다.
type Collector struct {
	polls         prometheus.Counter
	pollErrors    *prometheus.CounterVec
	statusChanges prometheus.Counter
	suppressed    prometheus.Counter
	pushSuccess   prometheus.Counter
	pushFail      prometheus.Counter
	passDuration  prometheus.Histogram
}

// NewCollector 는 Collector 를 생성하고 레지스트리에 메트릭을 등록한다.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alimbox_polls_total",
			Help: "구독별 배송조회 호출의 합계",
		}),
		pollErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alimbox_poll_errors_total",
			Help: "폴링 중 발생한 에러의 사유별 합계",
		}, []string{"reason"}),
		statusChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alimbox_status_changes_total",
			Help: "감지된 배송 상태 전이의 합계",
		}),
		suppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alimbox_suppressed_transitions_total",
			Help: "배송완료 동의어 반복으로 억제된 전이의 합계",
		}),
		pushSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alimbox_push_success_total",
			Help: "푸시 발송 성공의 합계",
		}),
		pushFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alimbox_push_fail_total",
			Help: "푸시 발송 실패의 합계",
		}),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "alimbox_pass_duration_seconds",
			Help:    "폴링 패스 1회의 소요 시간(초)",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.polls,
		c.pollErrors,
		c.statusChanges,
		c.suppressed,
		c.pushSuccess,
		c.pushFail,
		c.passDuration,
	)

	return c
}

// RecordPoll 은 구독 1건의 조회를 기록한다.
func (c *Collector) RecordPoll() {
	c.polls.Inc()
}

// RecordPollError 는 폴링 에러를 사유별로 기록한다.
func (c *Collector) RecordPollError(reason string) {
	c.pollErrors.WithLabelValues(reason).Inc()
}

// RecordStatusChange 는 상태 전이 감지를 기록한다.
func (c *Collector) RecordStatusChange() {
	c.statusChanges.Inc()
}

// RecordSuppressed 는 억제된 전이를 기록한다.
func (c *Collector) RecordSuppressed() {
	c.suppressed.Inc()
}

// RecordPushSuccess 는 푸시 발송 성공을 기록한다.
func (c *Collector) RecordPushSuccess() {
	c.pushSuccess.Inc()
}

// RecordPushFailure 는 푸시 발송 실패를 기록한다.
func (c *Collector) RecordPushFailure() {
	c.pushFail.Inc()
}

// RecordPassDuration 은 폴링 패스의 소요 시간을 기록한다.
func (c *Collector) RecordPassDuration(duration time.Duration) {
	c.passDuration.Observe(duration.Seconds())
}

// Handler 는 Prometheus 스크레이프용 HTTP 핸들러를 반환한다.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute 는 /metrics 엔드포인트를 제공하는 HTTP 핸들러를 반환한다.
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
