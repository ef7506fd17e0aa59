package push

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogSender 는 실제 발송 없이 로그만 남기는 Sender 구현이다.
// FCM 자격 증명이 없는 로컬 개발 환경에서 사용한다.
type LogSender struct {
	logger *slog.Logger
}

var _ Sender = (*LogSender)(nil)

// NewLogSender 는 LogSender 를 생성한다.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send 는 메시지를 발송하지 않고 내용을 INFO 로그로 남긴다.
func (s *LogSender) Send(ctx context.Context, token, title, body string) (string, error) {
	id := uuid.NewString()
	s.logger.Info("푸시 발송(드라이런)",
		slog.String("message_id", id),
		slog.String("title", title),
		slog.String("body", body),
	)
	return id, nil
}
