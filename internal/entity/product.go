package entity

import "time"

const (
	CategoryStationary = "stationary"
	CategoryCanteen    = "canteen"
)

func ValidCategory(category string) bool {
	return category == CategoryStationary || category == CategoryCanteen
}

type Product struct {
	ID                int       `json:"id"`
	VendorID          int       `json:"vendor_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	Price             float64   `json:"price"`
	ImgURL            string    `json:"img_url"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	CreatedAt         time.Time `json:"created_at"`
}
