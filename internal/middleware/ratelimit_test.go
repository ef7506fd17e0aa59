package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(1),
		GeneralBurst:    2,
		SubscribeRate:   rate.Limit(1),
		SubscribeBurst:  1,
		CleanupInterval: time.Minute,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGeneralMiddleware_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(testConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%d 번째 요청 status = %d, want 200", i+1, w.Code)
		}
	}
}

func TestGeneralMiddleware_RejectsBeyondBurst(t *testing.T) {
	rl := NewRateLimiter(testConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("버스트 초과 status = %d, want 429", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("Retry-After 헤더가 있어야 한다")
	}
}

// 클라이언트 IP 가 다르면 리미터도 독립이다.
func TestGeneralMiddleware_PerClientIsolation(t *testing.T) {
	rl := NewRateLimiter(testConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.3:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
	}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.4:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("다른 IP 의 요청 status = %d, want 200", w.Code)
	}
}

// 구독 등록 리밋은 전반 리밋과 독립이다.
func TestSubscribeMiddleware_IndependentTier(t *testing.T) {
	rl := NewRateLimiter(testConfig())
	defer rl.Stop()

	subscribe := rl.SubscribeMiddleware()(okHandler())
	general := rl.GeneralMiddleware()(okHandler())

	// 구독 버스트(1건) 소진
	req := httptest.NewRequest(http.MethodPost, "/subscribe_alert", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	w := httptest.NewRecorder()
	subscribe.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("1 번째 구독 요청 status = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/subscribe_alert", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	w = httptest.NewRecorder()
	subscribe.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("구독 버스트 초과 status = %d, want 429", w.Code)
	}

	// 전반 리밋에는 영향이 없어야 한다
	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	w = httptest.NewRecorder()
	general.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("전반 요청 status = %d, want 200", w.Code)
	}
}
