package push

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMSender 는 Firebase Cloud Messaging 기반 Sender 구현이다.
type FCMSender struct {
	client *messaging.Client
	logger *slog.Logger
}

var _ Sender = (*FCMSender)(nil)

// NewFCMSender 는 서비스 계정 키 파일로 FCM 클라이언트를 초기화한다.
func NewFCMSender(ctx context.Context, credentialsFile string, logger *slog.Logger) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase 앱 초기화에 실패했습니다: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("FCM 클라이언트 생성에 실패했습니다: %w", err)
	}

	return &FCMSender{client: client, logger: logger}, nil
}

// Send 는 단일 기기 토큰으로 알림 메시지를 발송한다.
func (s *FCMSender) Send(ctx context.Context, token, title, body string) (string, error) {
	id, err := s.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		s.logger.Warn("푸시 발송에 실패했습니다",
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("푸시 발송에 실패했습니다: %w", err)
	}

	s.logger.Info("푸시를 발송했습니다",
		slog.String("message_id", id),
	)
	return id, nil
}
