package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alimbox/alimbox/internal/model"
	"github.com/google/uuid"
)

// PostgresSnapshotRepo 는 PostgreSQL 기반 배송완료 스냅샷 리포지토리이다.
type PostgresSnapshotRepo struct {
	db *sql.DB
}

// NewPostgresSnapshotRepo 는 PostgresSnapshotRepo 를 생성한다.
func NewPostgresSnapshotRepo(db *sql.DB) *PostgresSnapshotRepo {
	return &PostgresSnapshotRepo{db: db}
}

// FindByInvoice 는 송장번호로 스냅샷을 조회한다. 없으면 nil 을 반환한다.
func (r *PostgresSnapshotRepo) FindByInvoice(ctx context.Context, invoice string) (*model.DeliverySnapshot, error) {
	snapshot := &model.DeliverySnapshot{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, invoice, payload, created_at
		 FROM delivery_snapshots WHERE invoice = $1`,
		invoice,
	).Scan(&snapshot.ID, &snapshot.Invoice, &snapshot.Payload, &snapshot.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("스냅샷 조회에 실패했습니다: %w", err)
	}

	return snapshot, nil
}

// Create 는 스냅샷을 저장한다. ID 가 비어 있으면 새로 채번한다.
func (r *PostgresSnapshotRepo) Create(ctx context.Context, snapshot *model.DeliverySnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO delivery_snapshots (id, invoice, payload, created_at)
		 VALUES ($1, $2, $3, $4)`,
		snapshot.ID, snapshot.Invoice, snapshot.Payload, snapshot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("스냅샷 저장에 실패했습니다: %w", err)
	}
	return nil
}

// compile-time interface check
var _ DeliverySnapshotRepository = (*PostgresSnapshotRepo)(nil)
