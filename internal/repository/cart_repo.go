package repository

import (
	"context"
	"database/sql"
	"errors"

	"instacampus/internal/entity"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db}
}

// GetCart loads the (userID, category) cart with items expanded with product
// and vendor fields. Returns ErrNotFound when no cart row exists.
func (r *CartRepository) GetCart(ctx context.Context, userID int, category string) (*entity.Cart, error) {
	cart := &entity.Cart{}
	query := `SELECT id, user_id, category, vendor_id, updated_at FROM carts
		WHERE user_id = ? AND category = ? ORDER BY updated_at DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, userID, category).Scan(
		&cart.ID, &cart.UserID, &cart.Category, &cart.VendorID, &cart.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	itemQuery := `SELECT ci.product_id, ci.quantity, p.name, p.price, p.img_url, u.name
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		JOIN users u ON u.id = p.vendor_id
		WHERE ci.cart_id = ?`
	rows, err := r.db.QueryContext(ctx, itemQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := entity.CartItem{}
		err := rows.Scan(&item.ProductID, &item.Quantity, &item.ProductName, &item.Price, &item.ImgURL, &item.VendorName)
		if err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}

	return cart, rows.Err()
}

// SaveCart upserts the cart row and replaces its items in one transaction.
func (r *CartRepository) SaveCart(ctx context.Context, cart *entity.Cart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if cart.ID == 0 {
		query := `INSERT INTO carts (user_id, category, vendor_id) VALUES (?, ?, ?)`
		res, err := tx.ExecContext(ctx, query, cart.UserID, cart.Category, cart.VendorID)
		if err != nil {
			tx.Rollback()
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			return err
		}
		cart.ID = int(id)
	} else {
		query := `UPDATE carts SET vendor_id = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, query, cart.VendorID, cart.ID); err != nil {
			tx.Rollback()
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cart.ID); err != nil {
		tx.Rollback()
		return err
	}

	if len(cart.Items) > 0 {
		itemQuery := `INSERT INTO cart_items (cart_id, product_id, quantity) VALUES `
		var values []interface{}
		for _, item := range cart.Items {
			itemQuery += "(?, ?, ?),"
			values = append(values, cart.ID, item.ProductID, item.Quantity)
		}
		itemQuery = itemQuery[:len(itemQuery)-1]

		if _, err := tx.ExecContext(ctx, itemQuery, values...); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// ClearCart empties the cart's items and nulls its vendor binding.
func (r *CartRepository) ClearCart(ctx context.Context, cartID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE carts SET vendor_id = NULL WHERE id = ?`, cartID); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
