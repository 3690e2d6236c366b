package model

import (
	"time"

	"github.com/google/uuid"
)

// Order status values.
const (
	OrderStatusCompleted = "completed"
)

// Order represents a completed purchase. Created exactly once per successful
// purchase transaction and immutable afterwards.
type Order struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	TotalAmount float64   `json:"total_amount" db:"total_amount"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// OrderResponse wraps a single order.
type OrderResponse struct {
	Order Order `json:"order"`
}

// OrderListResponse is returned by GET /api/orders.
type OrderListResponse struct {
	Orders []Order `json:"orders"`
}
