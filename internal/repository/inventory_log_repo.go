package repository

import (
	"context"
	"database/sql"

	"instacampus/internal/entity"
)

type InventoryLogRepository struct {
	db *sql.DB
}

func NewInventoryLogRepository(db *sql.DB) *InventoryLogRepository {
	return &InventoryLogRepository{db}
}

func (r *InventoryLogRepository) AppendLog(ctx context.Context, event *entity.InventoryEvent) error {
	query := `INSERT INTO inventory_logs (product_id, delta, reason, actor_id) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, event.ProductID, event.Delta, event.Reason, event.ActorID)
	return err
}

func (r *InventoryLogRepository) ListLogsByProduct(ctx context.Context, productID int) ([]*entity.InventoryLog, error) {
	query := `SELECT id, product_id, delta, reason, actor_id, created_at
		FROM inventory_logs WHERE product_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*entity.InventoryLog
	for rows.Next() {
		l := &entity.InventoryLog{}
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Delta, &l.Reason, &l.ActorID, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
