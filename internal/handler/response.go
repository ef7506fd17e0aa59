// Package handler 는 HTTP API 핸들러를 제공한다.
// 모든 응답은 {status: success|fail|error|ignored|duplicate} envelope 을 따른다.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alimbox/alimbox/internal/model"
)

// writeJSON 은 envelope 응답을 쓴다.
func writeJSON(w http.ResponseWriter, httpStatus int, payload map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(payload)
}

// writeSuccess 는 status=success 응답에 추가 필드를 합쳐 쓴다.
func writeSuccess(w http.ResponseWriter, extra map[string]interface{}) {
	payload := map[string]interface{}{"status": "success"}
	for k, v := range extra {
		payload[k] = v
	}
	writeJSON(w, http.StatusOK, payload)
}

// writeFail 은 클라이언트 측 실패 응답을 쓴다.
func writeFail(w http.ResponseWriter, httpStatus int, message string) {
	writeJSON(w, httpStatus, map[string]interface{}{
		"status":  "fail",
		"message": message,
	})
}

// handleServiceError 는 서비스 에러를 envelope 과 HTTP 상태 코드로 변환한다.
// 중복 구독은 실패가 아니라 200/duplicate 로 응답한다.
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status":  "error",
			"message": "서버 내부 오류가 발생했습니다.",
		})
		return
	}

	httpStatus := http.StatusInternalServerError
	switch apiErr.Code {
	case model.ErrCodeMissingField:
		httpStatus = http.StatusBadRequest
	case model.ErrCodeDuplicateSubscription:
		httpStatus = http.StatusOK
	case model.ErrCodeSubscriptionNotFound:
		httpStatus = http.StatusNotFound
	}

	writeJSON(w, httpStatus, map[string]interface{}{
		"status":  apiErr.Status,
		"message": apiErr.Message,
	})
}
