package repository

import (
	"context"
	"database/sql"
	"errors"

	"instacampus/internal/entity"
)

type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db}
}

func (r *InventoryRepository) GetInventoryByID(ctx context.Context, id int) (*entity.Inventory, error) {
	inv := &entity.Inventory{}
	query := `SELECT id, product_id, quantity_available, last_stocked_at FROM inventory WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&inv.ID, &inv.ProductID, &inv.QuantityAvailable, &inv.LastStockedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return inv, nil
}

func (r *InventoryRepository) GetInventoryByProductID(ctx context.Context, productID int) (*entity.Inventory, error) {
	inv := &entity.Inventory{}
	query := `SELECT id, product_id, quantity_available, last_stocked_at FROM inventory WHERE product_id = ?`
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&inv.ID, &inv.ProductID, &inv.QuantityAvailable, &inv.LastStockedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return inv, nil
}

// Restock adds quantity and stamps last_stocked_at.
func (r *InventoryRepository) Restock(ctx context.Context, id, quantity int) error {
	query := `UPDATE inventory SET quantity_available = quantity_available + ?, last_stocked_at = NOW() WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Deduct subtracts quantity. The non-negativity guard lives in the WHERE
// clause, so a concurrent deduction cannot drive the count below zero.
func (r *InventoryRepository) Deduct(ctx context.Context, id, quantity int) error {
	query := `UPDATE inventory SET quantity_available = quantity_available - ?, last_stocked_at = NOW()
		WHERE id = ? AND quantity_available >= ?`
	res, err := r.db.ExecContext(ctx, query, quantity, id, quantity)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}

	return nil
}

// ListVendorInventory returns the vendor's inventory rows joined with their
// products.
func (r *InventoryRepository) ListVendorInventory(ctx context.Context, vendorID int) ([]*entity.InventoryItem, error) {
	query := `SELECT i.id, i.product_id, i.quantity_available, i.last_stocked_at,
			p.name, p.category, p.price, p.low_stock_threshold
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE p.vendor_id = ?`
	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*entity.InventoryItem
	for rows.Next() {
		item := &entity.InventoryItem{}
		err := rows.Scan(&item.ID, &item.ProductID, &item.QuantityAvailable, &item.LastStockedAt,
			&item.ProductName, &item.Category, &item.Price, &item.LowStockThreshold)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
