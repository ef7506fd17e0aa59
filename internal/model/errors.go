package model

import "fmt"

// APIError 는 통일된 에러 포맷을 표현한다.
// Status 는 HTTP 응답 envelope 의 status 필드 값이 된다.
type APIError struct {
	Code    string // 에러 코드
	Message string // 에러 메시지
	Status  string // envelope status: fail, error, duplicate
}

// Error 는 error 인터페이스를 구현한다.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 정의된 에러 코드
const (
	ErrCodeMissingField          = "MISSING_FIELD"
	ErrCodeDuplicateSubscription = "DUPLICATE_SUBSCRIPTION"
	ErrCodeSubscriptionNotFound  = "SUBSCRIPTION_NOT_FOUND"
	ErrCodeModelUnavailable      = "MODEL_UNAVAILABLE"
	ErrCodeTrackingFailed        = "TRACKING_FAILED"
	ErrCodeAuthFailed            = "AUTH_FAILED"
)

// NewMissingFieldError 는 필수 항목 누락 에러를 생성한다.
func NewMissingFieldError(fields string) *APIError {
	return &APIError{
		Code:    ErrCodeMissingField,
		Message: fmt.Sprintf("필수 항목이 누락되었습니다: %s", fields),
		Status:  "fail",
	}
}

// NewDuplicateSubscriptionError 는 이미 등록된 구독을 재등록하려 한 경우의 에러를 생성한다.
func NewDuplicateSubscriptionError() *APIError {
	return &APIError{
		Code:    ErrCodeDuplicateSubscription,
		Message: "이미 등록된 구독입니다.",
		Status:  "duplicate",
	}
}

// NewSubscriptionNotFoundError 는 구독이 존재하지 않는 경우의 에러를 생성한다.
func NewSubscriptionNotFoundError(userID, invoice string) *APIError {
	return &APIError{
		Code:    ErrCodeSubscriptionNotFound,
		Message: fmt.Sprintf("구독 정보가 없습니다: %s_%s", userID, invoice),
		Status:  "fail",
	}
}

// NewModelUnavailableError 는 예측 모델 아티팩트를 찾지 못한 경우의 에러를 생성한다.
func NewModelUnavailableError(carrierID string) *APIError {
	return &APIError{
		Code:    ErrCodeModelUnavailable,
		Message: fmt.Sprintf("예측 모델을 찾을 수 없습니다: carrier=%s", carrierID),
		Status:  "error",
	}
}

// NewTrackingFailedError 는 배송조회 호출이 실패한 경우의 에러를 생성한다.
// 폴링 패스에서는 해당 구독만 건너뛰는 복구 가능 에러로 취급한다.
func NewTrackingFailedError(reason string) *APIError {
	return &APIError{
		Code:    ErrCodeTrackingFailed,
		Message: fmt.Sprintf("배송 조회에 실패했습니다: %s", reason),
		Status:  "error",
	}
}

// NewAuthFailedError 는 배송조회 API 토큰 발급 실패 에러를 생성한다.
// 폴링 패스 전체를 중단시키는 치명 에러이며 다음 주기에 재시도한다.
func NewAuthFailedError(reason string) *APIError {
	return &APIError{
		Code:    ErrCodeAuthFailed,
		Message: fmt.Sprintf("배송조회 API 인증에 실패했습니다: %s", reason),
		Status:  "error",
	}
}
