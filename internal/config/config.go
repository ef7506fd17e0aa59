// Package config 는 환경변수 기반 애플리케이션 설정을 제공한다.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 는 애플리케이션 전체 설정을 보관한다.
// 기동 시 환경변수에서 1회 로드하고 이후에는 불변으로 취급한다.
type Config struct {
	// Database
	DatabaseURL string

	// 배송조회 API (tracker.delivery)
	TrackerClientID     string
	TrackerClientSecret string
	TrackerAuthURL      string
	TrackerAPIURL       string

	// 푸시 (FCM)
	FirebaseCredentialsFile string

	// 예측 모델 아티팩트
	ModelPath string

	// 폴링
	PollInterval time.Duration
	HTTPTimeout  time.Duration

	// Rate Limit (req/min)
	RateLimitGeneral   int
	RateLimitSubscribe int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load 는 환경변수에서 Config 를 읽어들인다.
// 작업 디렉터리에 .env 파일이 있으면 먼저 로드한다(이미 설정된 변수는 덮어쓰지 않음).
// 필수 환경변수가 없으면 에러를 반환한다.
func Load() (*Config, error) {
	// .env 는 선택 사항이므로 로드 실패는 무시한다
	_ = godotenv.Load()

	cfg := &Config{}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.TrackerClientID = os.Getenv("TRACKER_CLIENT_ID")
	if cfg.TrackerClientID == "" {
		missing = append(missing, "TRACKER_CLIENT_ID")
	}

	cfg.TrackerClientSecret = os.Getenv("TRACKER_CLIENT_SECRET")
	if cfg.TrackerClientSecret == "" {
		missing = append(missing, "TRACKER_CLIENT_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("필수 환경변수가 설정되지 않았습니다: %v", missing)
	}

	cfg.TrackerAuthURL = getEnvString("TRACKER_AUTH_URL", "https://auth.tracker.delivery/oauth2/token")
	cfg.TrackerAPIURL = getEnvString("TRACKER_API_URL", "https://apis.tracker.delivery/graphql")
	cfg.FirebaseCredentialsFile = getEnvString("FIREBASE_CREDENTIALS_FILE", "")
	cfg.ModelPath = getEnvString("MODEL_PATH", "models.json")
	cfg.PollInterval = getEnvDuration("POLL_INTERVAL", 300*time.Second)
	cfg.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT", 10*time.Second)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitSubscribe = getEnvInt("RATE_LIMIT_SUBSCRIBE", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "5000")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "https://alimbox.com")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
