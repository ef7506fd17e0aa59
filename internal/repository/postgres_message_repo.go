package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alimbox/alimbox/internal/model"
	"github.com/google/uuid"
)

// PostgresMessageRepo 는 PostgreSQL 기반 메시지 로그 리포지토리이다.
type PostgresMessageRepo struct {
	db *sql.DB
}

// NewPostgresMessageRepo 는 PostgresMessageRepo 를 생성한다.
func NewPostgresMessageRepo(db *sql.DB) *PostgresMessageRepo {
	return &PostgresMessageRepo{db: db}
}

// Append 는 메시지 로그 항목을 추가한다. ID 가 비어 있으면 새로 채번한다.
func (r *PostgresMessageRepo) Append(ctx context.Context, entry *model.MessageEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, user_id, invoice, body, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.UserID, entry.Invoice, entry.Body, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("메시지 로그 추가에 실패했습니다: %w", err)
	}
	return nil
}

// ListByKey 는 (user_id, invoice) 의 메시지 로그를 시간순으로 반환한다.
func (r *PostgresMessageRepo) ListByKey(ctx context.Context, userID, invoice string) ([]*model.MessageEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, invoice, body, created_at
		 FROM messages WHERE user_id = $1 AND invoice = $2 ORDER BY created_at ASC`,
		userID, invoice,
	)
	if err != nil {
		return nil, fmt.Errorf("메시지 로그 조회에 실패했습니다: %w", err)
	}
	defer rows.Close()

	var entries []*model.MessageEntry
	for rows.Next() {
		entry := &model.MessageEntry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Invoice, &entry.Body, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("메시지 행 읽기에 실패했습니다: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("메시지 로그 순회에 실패했습니다: %w", err)
	}
	return entries, nil
}

// DeleteByKey 는 (user_id, invoice) 의 메시지 로그를 전부 삭제한다.
func (r *PostgresMessageRepo) DeleteByKey(ctx context.Context, userID, invoice string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM messages WHERE user_id = $1 AND invoice = $2`,
		userID, invoice,
	)
	if err != nil {
		return fmt.Errorf("메시지 로그 삭제에 실패했습니다: %w", err)
	}
	return nil
}

// compile-time interface check
var _ MessageLogRepository = (*PostgresMessageRepo)(nil)
