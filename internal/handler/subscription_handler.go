package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/alimbox/alimbox/internal/model"
)

// SubscriptionServiceInterface 는 구독 핸들러가 필요로 하는 서비스 인터페이스이다.
type SubscriptionServiceInterface interface {
	// Subscribe 는 새 구독을 등록한다.
	Subscribe(ctx context.Context, sub *model.Subscription) error
	// Unsubscribe 는 구독과 메시지 로그를 삭제한다.
	Unsubscribe(ctx context.Context, userID, invoice string) error
	// Toggle 은 알림 플래그를 뒤집고 새 값을 반환한다.
	Toggle(ctx context.Context, userID, invoice string) (bool, error)
	// List 는 전체 구독을 반환한다.
	List(ctx context.Context) ([]*model.Subscription, error)
	// Messages 는 구독의 메시지 로그를 시간순으로 반환한다.
	Messages(ctx context.Context, userID, invoice string) ([]*model.MessageEntry, error)
}

// SubscriptionHandler 는 구독 관리 HTTP 핸들러이다.
type SubscriptionHandler struct {
	service SubscriptionServiceInterface
}

// NewSubscriptionHandler 는 SubscriptionHandler 를 생성한다.
func NewSubscriptionHandler(service SubscriptionServiceInterface) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// subscribeRequest 는 구독 등록/해지/토글 요청 본문이다.
type subscribeRequest struct {
	Invoice   string `json:"invoice"`
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	CarrierID string `json:"carrier_id"`
}

// subscriptionResponse 는 구독 정보의 API 응답이다.
type subscriptionResponse struct {
	Invoice      string    `json:"invoice"`
	UserID       string    `json:"user_id"`
	CarrierID    string    `json:"carrier_id"`
	Status       string    `json:"status"`
	AlertEnabled bool      `json:"alert_enabled"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// messageResponse 는 메시지 로그 항목의 API 응답이다.
type messageResponse struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscribe 는 새 구독을 등록한다.
// POST /subscribe_alert
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "요청 본문 파싱에 실패했습니다.")
		return
	}

	sub := &model.Subscription{
		Invoice:   req.Invoice,
		UserID:    req.UserID,
		PushToken: req.Token,
		CarrierID: req.CarrierID,
	}
	if err := h.service.Subscribe(r.Context(), sub); err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"carrier_id": sub.CarrierID,
	})
}

// Unsubscribe 는 구독과 메시지 로그를 삭제한다.
// POST /unsubscribe_alert
func (h *SubscriptionHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "요청 본문 파싱에 실패했습니다.")
		return
	}
	if req.Invoice == "" || req.UserID == "" {
		handleServiceError(w, model.NewMissingFieldError("invoice, user_id"))
		return
	}

	if err := h.service.Unsubscribe(r.Context(), req.UserID, req.Invoice); err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, nil)
}

// Toggle 은 알림 on/off 를 뒤집는다. 미등록 키는 404 fail 이다.
// POST /toggle_alert
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "요청 본문 파싱에 실패했습니다.")
		return
	}
	if req.Invoice == "" || req.UserID == "" {
		handleServiceError(w, model.NewMissingFieldError("invoice, user_id"))
		return
	}

	enabled, err := h.service.Toggle(r.Context(), req.UserID, req.Invoice)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"alert_enabled": enabled,
	})
}

// CurrentStatuses 는 전체 구독의 현재 상태를 반환한다.
// GET /get_current_statuses
func (h *SubscriptionHandler) CurrentStatuses(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		resp = append(resp, subscriptionResponse{
			Invoice:      sub.Invoice,
			UserID:       sub.UserID,
			CarrierID:    sub.CarrierID,
			Status:       sub.Status,
			AlertEnabled: sub.AlertEnabled,
			SubscribedAt: sub.SubscribedAt,
		})
	}

	writeSuccess(w, map[string]interface{}{
		"subscriptions": resp,
	})
}

// AlertMessages 는 구독의 메시지 로그 본문을 반환한다.
// GET /alert_messages?invoice=&user_id=
func (h *SubscriptionHandler) AlertMessages(w http.ResponseWriter, r *http.Request) {
	invoice := r.URL.Query().Get("invoice")
	userID := r.URL.Query().Get("user_id")
	if invoice == "" || userID == "" {
		handleServiceError(w, model.NewMissingFieldError("invoice, user_id"))
		return
	}

	entries, err := h.service.Messages(r.Context(), userID, invoice)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]messageResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, messageResponse{
			Body:      entry.Body,
			CreatedAt: entry.CreatedAt,
		})
	}

	writeSuccess(w, map[string]interface{}{
		"messages": resp,
	})
}
