package entity

import "time"

// OrderStatus is the lifecycle state of an order. Orders are created pending;
// no operation in this engine advances the status after creation.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is an immutable checkout record: a snapshot of the cart and its total
// at the moment the order was placed.
type Order struct {
	ID        string      `json:"order_id"`
	UserID    string      `json:"user_id"`
	TotalCost float64     `json:"total_cost"`
	PlacedAt  time.Time   `json:"order_placed_at"`
	Status    OrderStatus `json:"status"`
	Items     CartItems   `json:"items"`
}
