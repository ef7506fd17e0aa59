// Package model 은 도메인 모델을 정의한다.
package model

import "time"

// Subscription 은 (user_id, invoice) 를 키로 하는 배송 알림 구독을 표현한다.
// Status 는 마지막으로 관측한 정규화 상태이며 구독 직후에는 빈 문자열이다.
type Subscription struct {
	Invoice      string
	UserID       string
	PushToken    string
	CarrierID    string
	Status       string
	AlertEnabled bool
	SubscribedAt time.Time
}

// Key 는 문서 저장소의 복합 키 "{user_id}_{invoice}" 를 반환한다.
func (s *Subscription) Key() string {
	return s.UserID + "_" + s.Invoice
}

// MessageEntry 는 구독별 메시지 로그의 항목 하나를 표현한다.
// 로그는 (user_id, invoice) 별로 시간순 append-only 이다.
type MessageEntry struct {
	ID        string
	UserID    string
	Invoice   string
	Body      string
	CreatedAt time.Time
}

// DeliverySnapshot 은 배송완료 건의 원본 페이로드 스냅샷이다.
// invoice 당 1건만 저장한다.
type DeliverySnapshot struct {
	ID        string
	Invoice   string
	Payload   []byte
	CreatedAt time.Time
}

// TrackEvent 는 배송조회 API 가 반환한 최신 이벤트이다.
type TrackEvent struct {
	StatusName string
	Time       string
}

// Carrier 는 송장번호로 감지된 택배사 정보이다.
type Carrier struct {
	ID   string
	Name string
}
