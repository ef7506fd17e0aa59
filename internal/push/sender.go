// Package push 는 구독자 기기로의 푸시 알림 발송을 담당한다.
package push

import "context"

// Sender 는 푸시 알림 발송 추상화이다.
// 발송 실패는 호출 측에서 기록만 하고 흐름을 중단하지 않는다.
type Sender interface {
	// Send 는 token 기기로 제목과 본문을 발송하고 메시지 ID 를 반환한다.
	Send(ctx context.Context, token, title, body string) (string, error)
}
