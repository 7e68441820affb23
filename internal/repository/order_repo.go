package repository

import (
	"context"
	"database/sql"
	"errors"

	"instacampus/internal/entity"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

// CreateOrderFromCart persists the order, deducts every item's inventory and
// clears the source cart in a single transaction. Any insufficient row aborts
// the whole order. The stock guard sits in the UPDATE's WHERE clause, so
// concurrent checkouts cannot drive a count negative.
func (r *OrderRepository) CreateOrderFromCart(ctx context.Context, order *entity.Order, cartID int) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	orderQuery := `INSERT INTO orders (user_id, total_amount, order_status, payment_status) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery, order.UserID, order.TotalAmount, order.OrderStatus, order.PaymentStatus)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, price) VALUES `
	var values []interface{}
	for _, item := range order.Items {
		itemQuery += "(?, ?, ?, ?),"
		values = append(values, orderID, item.ProductID, item.Quantity, item.Price)
	}
	itemQuery = itemQuery[:len(itemQuery)-1]

	if _, err := tx.ExecContext(ctx, itemQuery, values...); err != nil {
		tx.Rollback()
		return nil, err
	}

	deductQuery := `UPDATE inventory SET quantity_available = quantity_available - ?
		WHERE product_id = ? AND quantity_available >= ?`
	for _, item := range order.Items {
		res, err := tx.ExecContext(ctx, deductQuery, item.Quantity, item.ProductID, item.Quantity)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if affected == 0 {
			tx.Rollback()
			return nil, ErrInsufficientStock
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE carts SET vendor_id = NULL WHERE id = ?`, cartID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order.ID = int(orderID)
	return order, nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	order := &entity.Order{}
	query := `SELECT id, user_id, total_amount, order_status, payment_status, created_at FROM orders WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.TotalAmount, &order.OrderStatus, &order.PaymentStatus, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// loadOrderItems keeps rows whose product has since been deleted; the frozen
// quantity and price still have to sum to the order total.
func (r *OrderRepository) loadOrderItems(ctx context.Context, orderID int) ([]entity.OrderItem, error) {
	query := `SELECT oi.product_id, oi.quantity, oi.price,
			COALESCE(p.name, ''), COALESCE(p.category, ''), COALESCE(p.vendor_id, 0)
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		item := entity.OrderItem{}
		err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price, &item.ProductName, &item.Category, &item.VendorID)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *OrderRepository) ListOrdersByUser(ctx context.Context, userID int) ([]*entity.Order, error) {
	query := `SELECT id, user_id, total_amount, order_status, payment_status, created_at
		FROM orders WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order := &entity.Order{}
		err := rows.Scan(&order.ID, &order.UserID, &order.TotalAmount, &order.OrderStatus, &order.PaymentStatus, &order.CreatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		items, err := r.loadOrderItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

// ListVendorOrders returns orders containing at least one of the vendor's
// products, items filtered down to that vendor, joined with the customer name.
// With activeOnly set, completed and cancelled orders are excluded.
func (r *OrderRepository) ListVendorOrders(ctx context.Context, vendorID int, activeOnly bool) ([]*entity.Order, error) {
	query := `SELECT DISTINCT o.id, o.user_id, o.total_amount, o.order_status, o.payment_status, o.created_at, u.name
		FROM orders o
		JOIN users u ON u.id = o.user_id
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		WHERE p.vendor_id = ?`
	args := []interface{}{vendorID}
	if activeOnly {
		query += ` AND o.order_status IN (?, ?, ?, ?)`
		for _, s := range entity.ActiveOrderStatuses {
			args = append(args, s)
		}
	}
	query += ` ORDER BY o.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order := &entity.Order{}
		err := rows.Scan(&order.ID, &order.UserID, &order.TotalAmount, &order.OrderStatus,
			&order.PaymentStatus, &order.CreatedAt, &order.CustomerName)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		items, err := r.loadOrderItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if item.VendorID == vendorID {
				order.Items = append(order.Items, item)
			}
		}
	}

	return orders, nil
}

// UpdateOrderStatus applies a vendor transition. The terminal guard sits in
// the WHERE clause so a racing completion or cancellation cannot be
// overwritten.
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE orders SET order_status = ? WHERE id = ? AND order_status NOT IN (?, ?)`
	res, err := r.db.ExecContext(ctx, query, status, id, entity.StatusCompleted, entity.StatusCancelled)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStaleStatus
	}

	return nil
}

// CancelOrder marks the order cancelled and restores each item's inventory in
// the same transaction. The status guard is in the UPDATE's WHERE clause, so
// two racing cancels (or a cancel racing a vendor transition) cannot both
// restore stock. Items whose inventory row no longer exists are skipped
// rather than failing the cancellation.
func (r *OrderRepository) CancelOrder(ctx context.Context, order *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	cancelQuery := `UPDATE orders SET order_status = ? WHERE id = ? AND order_status NOT IN (?, ?, ?)`
	res, err := tx.ExecContext(ctx, cancelQuery, entity.StatusCancelled, order.ID,
		entity.StatusReady, entity.StatusCompleted, entity.StatusCancelled)
	if err != nil {
		tx.Rollback()
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected == 0 {
		tx.Rollback()
		return ErrStaleStatus
	}

	restoreQuery := `UPDATE inventory SET quantity_available = quantity_available + ? WHERE product_id = ?`
	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, restoreQuery, item.Quantity, item.ProductID); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
