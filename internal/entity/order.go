package entity

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

func ValidOrderStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TerminalOrderStatus reports whether no further transition out of status is
// accepted from any caller.
func TerminalOrderStatus(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// ActiveOrderStatuses are the statuses shown on the vendor's recent-orders view.
var ActiveOrderStatuses = []string{StatusPending, StatusConfirmed, StatusPreparing, StatusReady}

type Order struct {
	ID            int         `json:"id"`
	UserID        int         `json:"user_id"`
	Items         []OrderItem `json:"items"`
	TotalAmount   float64     `json:"total_amount"`
	OrderStatus   string      `json:"order_status"`
	PaymentStatus string      `json:"payment_status"`
	CreatedAt     time.Time   `json:"created_at"`
	CustomerName  string      `json:"customer_name,omitempty"`
}

// OrderItem freezes the product price at order-creation time. Category and
// VendorID are joined from the product for vendor-side filtering and checks.
type OrderItem struct {
	ProductID   int     `json:"product_id"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	ProductName string  `json:"product_name,omitempty"`
	Category    string  `json:"category,omitempty"`
	VendorID    int     `json:"vendor_id,omitempty"`
}
