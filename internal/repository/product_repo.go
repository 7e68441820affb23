package repository

import (
	"context"
	"database/sql"
	"errors"

	"instacampus/internal/entity"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

// CreateProduct inserts the product and its inventory row in one transaction.
func (r *ProductRepository) CreateProduct(ctx context.Context, product *entity.Product, initialStock int) (*entity.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO products (vendor_id, name, description, category, price, img_url, low_stock_threshold)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, query, product.VendorID, product.Name, product.Description,
		product.Category, product.Price, product.ImgURL, product.LowStockThreshold)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	invQuery := `INSERT INTO inventory (product_id, quantity_available) VALUES (?, ?)`
	_, err = tx.ExecContext(ctx, invQuery, id, initialStock)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	product.ID = int(id)
	return product, nil
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	product := &entity.Product{}
	query := `SELECT id, vendor_id, name, description, category, price, img_url, low_stock_threshold, created_at
		FROM products WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&product.ID, &product.VendorID, &product.Name,
		&product.Description, &product.Category, &product.Price, &product.ImgURL, &product.LowStockThreshold, &product.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *entity.Product) error {
	query := `UPDATE products SET name = ?, description = ?, price = ?, img_url = ?, low_stock_threshold = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, product.Name, product.Description, product.Price,
		product.ImgURL, product.LowStockThreshold, product.ID)
	return err
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
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

func (r *ProductRepository) ListProducts(ctx context.Context, category string) ([]*entity.Product, error) {
	query := `SELECT id, vendor_id, name, description, category, price, img_url, low_stock_threshold, created_at
		FROM products`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *ProductRepository) ListProductsByVendor(ctx context.Context, vendorID int) ([]*entity.Product, error) {
	query := `SELECT id, vendor_id, name, description, category, price, img_url, low_stock_threshold, created_at
		FROM products WHERE vendor_id = ?`
	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]*entity.Product, error) {
	var products []*entity.Product
	for rows.Next() {
		product := &entity.Product{}
		err := rows.Scan(&product.ID, &product.VendorID, &product.Name, &product.Description,
			&product.Category, &product.Price, &product.ImgURL, &product.LowStockThreshold, &product.CreatedAt)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}
