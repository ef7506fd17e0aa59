package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alimbox/alimbox/internal/metrics"
	"github.com/alimbox/alimbox/internal/middleware"
	"github.com/alimbox/alimbox/internal/repository"
	"github.com/alimbox/alimbox/internal/security"
)

// RouterDeps 는 NewRouter 에 필요한 의존을 묶은 구조체이다.
type RouterDeps struct {
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	SubscriptionService SubscriptionServiceInterface
	ForecastService     ForecastServiceInterface
	Snapshots           repository.DeliverySnapshotRepository
	Sanitizer           *security.ContentSanitizer

	MetricsGatherer prometheus.Gatherer
}

// NewRouter 는 전체 API 라우팅과 미들웨어 체인을 구성한 chi.Router 를 반환한다.
//
// 미들웨어 실행 순서:
//
//	CORS → Recovery → Logging → RateLimit(General)
//
// /metrics 는 레이트 리밋 밖에 둔다. 구독 등록에는 전용 리밋이 추가된다.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	healthHandler := NewHealthHandler()
	deliveryHandler := NewDeliveryHandler(deps.Snapshots, deps.Sanitizer)
	predictHandler := NewPredictHandler(deps.ForecastService)
	subHandler := NewSubscriptionHandler(deps.SubscriptionService)

	// Prometheus 스크레이프는 리밋 없이 노출한다
	r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/test", healthHandler.Test)
		r.Get("/health", healthHandler.Health)

		r.Post("/save_delivery", deliveryHandler.SaveDelivery)
		r.Post("/predict_arrival", predictHandler.PredictArrival)

		// 구독 등록에는 전용 레이트 리밋을 추가한다
		r.With(deps.RateLimiter.SubscribeMiddleware()).Post("/subscribe_alert", subHandler.Subscribe)
		r.Post("/unsubscribe_alert", subHandler.Unsubscribe)
		r.Post("/toggle_alert", subHandler.Toggle)

		r.Get("/get_current_statuses", subHandler.CurrentStatuses)
		r.Get("/alert_messages", subHandler.AlertMessages)
	})

	return r
}
