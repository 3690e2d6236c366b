package model

import (
	"time"

	"github.com/google/uuid"
)

// CartItem represents one row of a user's cart: a single product with a
// quantity. At most one row exists per (user, product) pair; adding a product
// that is already present merges quantity server-side.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Product is the joined product snapshot fetched at read time. It is not
	// cached across reads; prices always reflect the catalogue at fetch time.
	Product *Product `json:"product,omitempty"`
}

// LineTotal returns price x quantity for this line, zero when the product
// join is missing.
func (c *CartItem) LineTotal() float64 {
	if c.Product == nil {
		return 0
	}
	return c.Product.Price * float64(c.Quantity)
}

// AddToCartRequest is the payload for POST /api/cart.
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// UpdateCartItemRequest is the payload for PUT /api/cart/items/{id}.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is returned by GET /api/cart.
type CartResponse struct {
	Items []CartItem `json:"items"`
}

// CartItemResponse wraps a single confirmed cart mutation.
type CartItemResponse struct {
	Item CartItem `json:"item"`
}
