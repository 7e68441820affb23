package entity

import "time"

type Inventory struct {
	ID                int       `json:"id"`
	ProductID         int       `json:"product_id"`
	QuantityAvailable int       `json:"quantity_available"`
	LastStockedAt     time.Time `json:"last_stocked_at"`
}

// InventoryItem is an inventory row joined with its product, as returned to
// vendors listing their stock.
type InventoryItem struct {
	Inventory
	ProductName       string  `json:"product_name"`
	Category          string  `json:"category"`
	Price             float64 `json:"price"`
	LowStockThreshold int     `json:"low_stock_threshold"`
}

// Inventory event reasons, carried on kafka messages and into inventory_logs.
const (
	InventoryReasonRestock     = "restock"
	InventoryReasonDeduct      = "deduct"
	InventoryReasonOrderPlaced = "order-placed"
	InventoryReasonOrderCancel = "order-cancelled"
)

// InventoryEvent records one quantity change. Delta is positive for restocks
// and restores, negative for deductions.
type InventoryEvent struct {
	ProductID int    `json:"product_id"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
	ActorID   int    `json:"actor_id"`
}

type InventoryLog struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	ActorID   int       `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}
