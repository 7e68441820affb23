package migrations

import (
	"database/sql"
	"time"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(30) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS vendor_codes (
		id INT AUTO_INCREMENT PRIMARY KEY,
		code VARCHAR(6) NOT NULL UNIQUE,
		vendor_type VARCHAR(30) NOT NULL,
		created_by INT NOT NULL,
		used BOOLEAN NOT NULL DEFAULT FALSE,
		used_by INT NULL,
		used_at TIMESTAMP NULL,
		expires_at TIMESTAMP NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id INT AUTO_INCREMENT PRIMARY KEY,
		vendor_id INT NOT NULL,
		name VARCHAR(100) NOT NULL,
		description TEXT,
		category VARCHAR(20) NOT NULL,
		price DOUBLE NOT NULL,
		img_url VARCHAR(255),
		low_stock_threshold INT NOT NULL DEFAULT 5,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS inventory (
		id INT AUTO_INCREMENT PRIMARY KEY,
		product_id INT NOT NULL UNIQUE,
		quantity_available INT NOT NULL DEFAULT 0,
		last_stocked_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS carts (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		category VARCHAR(20) NOT NULL,
		vendor_id INT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY user_category_idx (user_id, category)
	);`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		cart_id INT NOT NULL,
		product_id INT NOT NULL,
		quantity INT NOT NULL,
		UNIQUE KEY cart_product_idx (cart_id, product_id),
		FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		total_amount DOUBLE NOT NULL,
		order_status VARCHAR(20) NOT NULL,
		payment_status VARCHAR(20) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_id INT NOT NULL,
		product_id INT NOT NULL,
		quantity INT NOT NULL,
		price DOUBLE NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS inventory_logs (
		id INT AUTO_INCREMENT PRIMARY KEY,
		product_id INT NOT NULL,
		delta INT NOT NULL,
		reason VARCHAR(30) NOT NULL,
		actor_id INT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
}

// AutoMigrate creates all tables if they do not exist.
func AutoMigrate(retries int, db *sql.DB) error {
	for _, query := range tables {
		_, err := db.Exec(query)
		if err != nil {
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
