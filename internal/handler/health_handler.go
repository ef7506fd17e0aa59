package handler

import "net/http"

// HealthHandler 는 생존 확인 엔드포인트를 제공한다.
type HealthHandler struct{}

// NewHealthHandler 는 HealthHandler 를 생성한다.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Test 는 동작 확인 응답을 반환한다.
// GET /test
func (h *HealthHandler) Test(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]interface{}{"message": "alimbox server is running"})
}

// Health 는 생존 확인 응답을 반환한다.
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, nil)
}
