package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/alimbox/alimbox/internal/predict"
	"github.com/alimbox/alimbox/internal/status"
)

// ForecastServiceInterface 는 예측 핸들러가 필요로 하는 서비스 인터페이스이다.
type ForecastServiceInterface interface {
	// PredictForecast 는 도착 예측 분과 5일 확률 히스토그램을 반환한다.
	PredictForecast(carrierID, st string, ref time.Time) (*predict.Forecast, error)
}

// PredictHandler 는 도착 시간 예측 API 핸들러이다.
type PredictHandler struct {
	service ForecastServiceInterface
}

// NewPredictHandler 는 PredictHandler 를 생성한다.
func NewPredictHandler(service ForecastServiceInterface) *PredictHandler {
	return &PredictHandler{service: service}
}

// predictRequest 는 도착 예측 요청 본문이다.
type predictRequest struct {
	CarrierID string `json:"carrier_id"`
	Status    string `json:"status"`
	LastTime  string `json:"last_time"`
}

// parseLastTime 은 마지막 이벤트 시각을 파싱한다.
// RFC3339 를 우선하고, 구형 클라이언트의 "2006-01-02 15:04:05" 포맷도 허용한다.
func parseLastTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

// PredictArrival 은 도착 예측 분, 5일 날짜, 확률을 반환한다.
// status 또는 last_time 누락은 400 fail 이다.
// POST /predict_arrival
func (h *PredictHandler) PredictArrival(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "요청 본문 파싱에 실패했습니다.")
		return
	}
	if req.Status == "" || req.LastTime == "" {
		writeFail(w, http.StatusBadRequest, "필수 항목이 누락되었습니다: status, last_time")
		return
	}

	lastTime, err := parseLastTime(req.LastTime)
	if err != nil {
		writeFail(w, http.StatusBadRequest, "last_time 을 해석할 수 없습니다.")
		return
	}

	forecast, err := h.service.PredictForecast(req.CarrierID, status.Normalize(req.Status), lastTime)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	dates := make([]string, len(forecast.Dates))
	for i, d := range forecast.Dates {
		dates[i] = d.Format("2006-01-02")
	}

	writeSuccess(w, map[string]interface{}{
		"predicted_minutes": math.Round(forecast.Minutes*10) / 10,
		"dates":             dates,
		"probabilities":     forecast.Probabilities,
	})
}
