package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/alimbox/alimbox/internal/config"
	"github.com/alimbox/alimbox/internal/database"
	"github.com/alimbox/alimbox/internal/handler"
	"github.com/alimbox/alimbox/internal/logger"
	"github.com/alimbox/alimbox/internal/metrics"
	"github.com/alimbox/alimbox/internal/middleware"
	"github.com/alimbox/alimbox/internal/predict"
	"github.com/alimbox/alimbox/internal/push"
	"github.com/alimbox/alimbox/internal/repository"
	"github.com/alimbox/alimbox/internal/security"
	"github.com/alimbox/alimbox/internal/subscription"
	"github.com/alimbox/alimbox/internal/tracking"
	"github.com/alimbox/alimbox/internal/watch"
)

// Init 은 애플리케이션 초기화를 수행한다.
// 환경변수에서 Config 를 읽고 JSON 구조화 로그를 설정한다.
// writer 가 지정되면 로그 출력 대상으로 그 writer 를 사용한다.
func Init(w io.Writer) (*config.Config, error) {
	// 설정 로드 전에도 로그를 쓸 수 있도록 먼저 초기화한다
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("설정 로드에 실패했습니다: %w", err)
	}

	return cfg, nil
}

// Run 은 애플리케이션의 메인 엔트리포인트이다.
// 커맨드라인 인자에서 서브커맨드를 해석해 해당 모드로 기동한다.
// args 에는 os.Args[1:] 를 넘긴다.
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck 는 경량 서브커맨드이므로 전체 초기화를 건너뛴다
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "5000"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("초기화에 실패했습니다: %w", err)
	}

	slog.Info("애플리케이션을 시작합니다",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// loadPredictAdapter 는 모델 아티팩트를 읽어 예측 어댑터를 구성한다.
// 아티팩트 파일이 없어도 기동은 계속하며, 이 경우 예측 요청은
// ModelUnavailable 에러로 응답한다.
func loadPredictAdapter(path string) *predict.Adapter {
	reg, err := predict.LoadFile(path)
	if err != nil {
		slog.Warn("예측 모델 아티팩트 로드에 실패했습니다",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		reg = predict.NewRegistry()
	}
	return predict.NewAdapter(reg)
}

// newTrackingClient 는 SSRF 방어가 적용된 배송조회 클라이언트를 생성한다.
func newTrackingClient(cfg *config.Config) *tracking.Client {
	outbound := security.NewOutboundClient(cfg.HTTPTimeout)
	return tracking.NewClient(
		outbound, slog.Default(),
		cfg.TrackerAuthURL, cfg.TrackerAPIURL,
		cfg.TrackerClientID, cfg.TrackerClientSecret,
	)
}

// runServe 는 API 서버 모드로 기동한다.
// DB 연결을 열고 전체 의존을 와이어링한 뒤 HTTP 서버를 시작한다.
// SIGINT 또는 SIGTERM 수신 시 그레이스풀 셧다운한다.
func runServe(cfg *config.Config) error {
	// 1. DB 연결
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("데이터베이스 연결 생성에 실패했습니다: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("데이터베이스 접속에 실패했습니다: %w", err)
	}

	slog.Info("데이터베이스에 접속했습니다")

	// 2. 리포지토리 초기화
	subRepo := repository.NewPostgresSubscriptionRepo(db)
	msgRepo := repository.NewPostgresMessageRepo(db)
	snapRepo := repository.NewPostgresSnapshotRepo(db)

	// 3. 배송조회 클라이언트와 구독 서비스
	trackerClient := newTrackingClient(cfg)
	subService := subscription.NewService(subRepo, msgRepo, trackerClient, slog.Default())
	if err := subService.Reload(context.Background()); err != nil {
		return fmt.Errorf("구독 캐시 적재에 실패했습니다: %w", err)
	}

	// 4. 예측 어댑터
	adapter := loadPredictAdapter(cfg.ModelPath)

	// 5. 메트릭 레지스트리
	reg := prometheus.NewRegistry()
	_ = metrics.NewCollector(reg)

	// 6. 레이트 리밋 (config 의 req/min 을 req/sec 으로 변환)
	rlCfg := middleware.DefaultRateLimiterConfig()
	rlCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rlCfg.GeneralBurst = cfg.RateLimitGeneral
	rlCfg.SubscribeRate = rate.Limit(float64(cfg.RateLimitSubscribe) / 60.0)
	rlCfg.SubscribeBurst = cfg.RateLimitSubscribe
	rateLimiter := middleware.NewRateLimiter(rlCfg)
	defer rateLimiter.Stop()

	// 7. 라우터 구성
	deps := &handler.RouterDeps{
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),

		SubscriptionService: subService,
		ForecastService:     adapter,
		Snapshots:           snapRepo,
		Sanitizer:           security.NewContentSanitizer(),

		MetricsGatherer: reg,
	}

	router := handler.NewRouter(deps)

	// 8. HTTP 서버 기동
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API 서버를 시작합니다",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("서버 리슨 에러", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("API 서버를 종료합니다...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("서버 셧다운에 실패했습니다: %w", err)
	}

	slog.Info("API 서버가 정상 종료되었습니다")
	return nil
}

// runWorker 는 폴링 워커 모드로 기동한다.
// DB 연결을 열고 상태 변화 감지 폴링 스케줄러를 시작한다.
// SIGINT 또는 SIGTERM 수신 시 종료한다.
func runWorker(cfg *config.Config) error {
	// 1. DB 연결
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("데이터베이스 연결 생성에 실패했습니다: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("데이터베이스 접속에 실패했습니다: %w", err)
	}

	slog.Info("데이터베이스에 접속했습니다 (worker)")

	// 2. 리포지토리와 구독 서비스
	subRepo := repository.NewPostgresSubscriptionRepo(db)
	msgRepo := repository.NewPostgresMessageRepo(db)

	trackerClient := newTrackingClient(cfg)
	subService := subscription.NewService(subRepo, msgRepo, trackerClient, slog.Default())
	if err := subService.Reload(context.Background()); err != nil {
		return fmt.Errorf("구독 캐시 적재에 실패했습니다: %w", err)
	}

	// 3. 푸시 발송기. 자격 증명이 없으면 드라이런 발송기로 대체한다
	var sender push.Sender
	if cfg.FirebaseCredentialsFile == "" {
		slog.Warn("FIREBASE_CREDENTIALS_FILE 이 설정되지 않아 푸시를 드라이런 모드로 실행합니다")
		sender = push.NewLogSender(slog.Default())
	} else {
		fcm, err := push.NewFCMSender(context.Background(), cfg.FirebaseCredentialsFile, slog.Default())
		if err != nil {
			return fmt.Errorf("FCM 초기화에 실패했습니다: %w", err)
		}
		sender = fcm
	}

	// 4. 예측 어댑터와 메트릭
	adapter := loadPredictAdapter(cfg.ModelPath)

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	// 5. 감지기와 폴러
	detector := watch.NewDetector(sender, adapter, msgRepo, subService, collector, slog.Default())
	poller := watch.NewPoller(
		subService, trackerClient, detector,
		security.NewContentSanitizer(), collector, slog.Default(),
	)
	scheduler := watch.NewScheduler(poller, slog.Default())

	// 6. 워커 메트릭 노출용 경량 HTTP 서버
	metricsServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: metrics.SetupMetricsRoute(reg),
	}
	go func() {
		slog.Info("워커 메트릭 서버를 시작합니다",
			slog.String("addr", metricsServer.Addr),
		)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("메트릭 서버 리슨 에러", slog.String("error", err.Error()))
		}
	}()

	// 시그널 수신 시 폴링 루프를 중단한다
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("워커를 종료합니다...")
		cancel()
	}()

	slog.Info("워커를 시작합니다",
		slog.Duration("poll_interval", cfg.PollInterval),
	)

	// 폴링 스케줄러를 메인 고루틴에서 실행한다(블로킹)
	scheduler.Start(ctx, cfg.PollInterval)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("메트릭 서버 셧다운에 실패했습니다", slog.String("error", err.Error()))
	}

	slog.Info("워커가 정상 종료되었습니다")
	return nil
}

// runMigrate 는 데이터베이스 마이그레이션을 실행한다.
// 아직 적용되지 않은 마이그레이션을 순서대로 모두 적용한다.
func runMigrate(cfg *config.Config) error {
	slog.Info("데이터베이스 마이그레이션을 실행합니다",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("마이그레이션에 실패했습니다: %w", err)
	}

	slog.Info("데이터베이스 마이그레이션이 완료되었습니다")
	return nil
}

// runHealthcheck 는 헬스체크를 수행한다.
// distroless 환경의 Docker 헬스체크용 서브커맨드로,
// /health 엔드포인트에 HTTP 요청을 보내고 결과를 반환한다.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("헬스체크에 실패했습니다: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("헬스체크 응답 코드가 비정상입니다: %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL 은 데이터베이스 URL 의 자격 증명을 마스킹한다.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
