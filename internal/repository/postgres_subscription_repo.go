package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alimbox/alimbox/internal/model"
)

// PostgresSubscriptionRepo 는 PostgreSQL 기반 구독 리포지토리이다.
type PostgresSubscriptionRepo struct {
	db *sql.DB
}

// NewPostgresSubscriptionRepo 는 PostgresSubscriptionRepo 를 생성한다.
func NewPostgresSubscriptionRepo(db *sql.DB) *PostgresSubscriptionRepo {
	return &PostgresSubscriptionRepo{db: db}
}

// FindByKey 는 (user_id, invoice) 로 구독을 조회한다. 없으면 nil 을 반환한다.
func (r *PostgresSubscriptionRepo) FindByKey(ctx context.Context, userID, invoice string) (*model.Subscription, error) {
	sub := &model.Subscription{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, invoice, push_token, carrier_id, status, alert_enabled, subscribed_at
		 FROM subscriptions WHERE user_id = $1 AND invoice = $2`,
		userID, invoice,
	).Scan(&sub.UserID, &sub.Invoice, &sub.PushToken, &sub.CarrierID, &sub.Status, &sub.AlertEnabled, &sub.SubscribedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("구독 조회에 실패했습니다: %w", err)
	}

	return sub, nil
}

// Create 는 구독을 생성한다.
func (r *PostgresSubscriptionRepo) Create(ctx context.Context, sub *model.Subscription) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, invoice, push_token, carrier_id, status, alert_enabled, subscribed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.UserID, sub.Invoice, sub.PushToken, sub.CarrierID, sub.Status, sub.AlertEnabled, sub.SubscribedAt,
	)
	if err != nil {
		return fmt.Errorf("구독 생성에 실패했습니다: %w", err)
	}
	return nil
}

// UpdateStatus 는 구독의 마지막 관측 상태를 갱신한다.
func (r *PostgresSubscriptionRepo) UpdateStatus(ctx context.Context, userID, invoice, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = $3 WHERE user_id = $1 AND invoice = $2`,
		userID, invoice, status,
	)
	if err != nil {
		return fmt.Errorf("구독 상태 갱신에 실패했습니다: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("갱신 결과 확인에 실패했습니다: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("구독이 존재하지 않습니다: %s_%s", userID, invoice)
	}
	return nil
}

// UpdateAlertEnabled 는 구독의 알림 on/off 플래그를 갱신한다.
func (r *PostgresSubscriptionRepo) UpdateAlertEnabled(ctx context.Context, userID, invoice string, enabled bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET alert_enabled = $3 WHERE user_id = $1 AND invoice = $2`,
		userID, invoice, enabled,
	)
	if err != nil {
		return fmt.Errorf("알림 플래그 갱신에 실패했습니다: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("갱신 결과 확인에 실패했습니다: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("구독이 존재하지 않습니다: %s_%s", userID, invoice)
	}
	return nil
}

// Delete 는 (user_id, invoice) 구독을 삭제한다.
func (r *PostgresSubscriptionRepo) Delete(ctx context.Context, userID, invoice string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = $1 AND invoice = $2`,
		userID, invoice,
	)
	if err != nil {
		return fmt.Errorf("구독 삭제에 실패했습니다: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("삭제 결과 확인에 실패했습니다: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("구독이 존재하지 않습니다: %s_%s", userID, invoice)
	}
	return nil
}

// ListAll 은 전체 구독을 등록 시각 오름차순으로 반환한다.
func (r *PostgresSubscriptionRepo) ListAll(ctx context.Context) ([]*model.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, invoice, push_token, carrier_id, status, alert_enabled, subscribed_at
		 FROM subscriptions ORDER BY subscribed_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("구독 목록 조회에 실패했습니다: %w", err)
	}
	defer rows.Close()

	var subs []*model.Subscription
	for rows.Next() {
		sub := &model.Subscription{}
		if err := rows.Scan(&sub.UserID, &sub.Invoice, &sub.PushToken, &sub.CarrierID, &sub.Status, &sub.AlertEnabled, &sub.SubscribedAt); err != nil {
			return nil, fmt.Errorf("구독 행 읽기에 실패했습니다: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("구독 목록 순회에 실패했습니다: %w", err)
	}
	return subs, nil
}

// compile-time interface check
var _ SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)
