package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/alimbox/alimbox/internal/model"
	"github.com/alimbox/alimbox/internal/repository"
	"github.com/alimbox/alimbox/internal/security"
	"github.com/alimbox/alimbox/internal/status"
)

// DeliveryHandler 는 배송완료 스냅샷 저장을 담당한다.
type DeliveryHandler struct {
	snapshots repository.DeliverySnapshotRepository
	sanitizer *security.ContentSanitizer
}

// NewDeliveryHandler 는 DeliveryHandler 를 생성한다.
func NewDeliveryHandler(snapshots repository.DeliverySnapshotRepository, sanitizer *security.ContentSanitizer) *DeliveryHandler {
	return &DeliveryHandler{snapshots: snapshots, sanitizer: sanitizer}
}

// SaveDelivery 는 배송완료 건의 원본 페이로드를 저장한다.
// 배송완료 동의어가 아닌 상태는 ignored, 이미 저장된 송장은 duplicate 로 응답한다.
// POST /save_delivery
func (h *DeliveryHandler) SaveDelivery(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeFail(w, http.StatusBadRequest, "요청 본문을 읽을 수 없습니다.")
		return
	}

	var payload struct {
		Invoice string `json:"invoice"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		writeFail(w, http.StatusBadRequest, "요청 본문 파싱에 실패했습니다.")
		return
	}
	if payload.Invoice == "" || payload.Status == "" {
		handleServiceError(w, model.NewMissingFieldError("invoice, status"))
		return
	}

	normalized := status.Normalize(h.sanitizer.SanitizeStatusName(payload.Status))
	if !status.IsDelivered(normalized) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "ignored",
			"message": "배송완료 상태가 아니므로 저장하지 않습니다.",
		})
		return
	}

	existing, err := h.snapshots.FindByInvoice(r.Context(), payload.Invoice)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "duplicate",
			"message": "이미 저장된 송장입니다.",
		})
		return
	}

	snapshot := &model.DeliverySnapshot{
		Invoice:   payload.Invoice,
		Payload:   body,
		CreatedAt: time.Now(),
	}
	if err := h.snapshots.Create(r.Context(), snapshot); err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, nil)
}
