package model

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Purchased product status values. Status is the only mutable field after
// creation and is toggled by the owning user.
const (
	PurchasedStatusNotApplied = "not_applied"
	PurchasedStatusApplied    = "applied"
)

// ValidPurchasedStatus reports whether s is one of the allowed status values.
func ValidPurchasedStatus(s string) bool {
	return s == PurchasedStatusNotApplied || s == PurchasedStatusApplied
}

// PurchasedProduct is one redeemable unit created by the purchase
// transaction. Name and price are captured at purchase time so later
// catalogue edits do not affect past purchases.
type PurchasedProduct struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Price       float64   `json:"price" db:"price"`
	ProductCode string    `json:"product_code" db:"product_code"`
	Status      string    `json:"status" db:"status"`
	PurchasedAt time.Time `json:"purchased_at" db:"purchased_at"`
}

// UpdatePurchasedStatusRequest is the payload for PUT /api/purchased-products/{id}.
type UpdatePurchasedStatusRequest struct {
	Status string `json:"status"`
}

// PurchasedProductResponse wraps a single purchased product.
type PurchasedProductResponse struct {
	Product PurchasedProduct `json:"product"`
}

// PurchasedProductListResponse is returned by GET /api/purchased-products.
type PurchasedProductListResponse struct {
	Products []PurchasedProduct `json:"products"`
}

// codeAlphabet excludes ambiguous characters (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// NewRedemptionCode generates a unique redemption code of the form
// XXXXX-XXXXX-XXXXX-XXXXX.
func NewRedemptionCode() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// UUID-derived code rather than panic.
		return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:20]
	}

	var b strings.Builder
	b.Grow(23)
	for i, c := range buf {
		if i > 0 && i%5 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(codeAlphabet[int(c)%len(codeAlphabet)])
	}
	return b.String()
}
