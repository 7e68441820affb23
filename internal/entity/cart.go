package entity

import "time"

// Cart holds at most one row per (user, category). VendorID is set by the
// first item added and nulled again when the cart empties.
type Cart struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	Category  string     `json:"category"`
	VendorID  *int       `json:"vendor_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ProductID   int     `json:"product_id"`
	Quantity    int     `json:"quantity"`
	ProductName string  `json:"product_name,omitempty"`
	Price       float64 `json:"price,omitempty"`
	ImgURL      string  `json:"img_url,omitempty"`
	VendorName  string  `json:"vendor_name,omitempty"`
}
