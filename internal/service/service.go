package service

import (
	"context"

	"neon-market/internal/model"

	"github.com/google/uuid"
)

// CartService defines operations on a user's cart. Mutations are
// confirm-then-apply: the returned line is the server-authoritative row the
// client should reconcile against.
type CartService interface {
	// GetCart retrieves the user's cart lines with joined product data.
	GetCart(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)

	// AddItem adds quantity of a product to the cart, merging into an
	// existing line for that product if one exists.
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.CartItem, error)

	// UpdateItem replaces a line's quantity after validating it and checking
	// ownership.
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.CartItem, error)

	// RemoveItem deletes a single line after checking ownership.
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error

	// Clear empties the user's cart.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CheckoutService executes the purchase transaction.
type CheckoutService interface {
	// Purchase converts the user's cart into an order plus purchased product
	// rows inside one all-or-nothing database transaction.
	Purchase(ctx context.Context, userID uuid.UUID) (*model.Order, error)
}

// ProductService defines catalogue operations for the public and admin
// surfaces.
type ProductService interface {
	// ListActive retrieves the public catalogue with pagination and search.
	ListActive(ctx context.Context, limit, offset int, search string) (*model.ProductListResponse, error)

	// GetActive retrieves one active product.
	GetActive(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// List retrieves all products for the admin surface.
	List(ctx context.Context, limit, offset int, search string) (*model.ProductListResponse, error)

	// Create validates and inserts a new product.
	Create(ctx context.Context, input *model.ProductInput) (*model.Product, error)

	// Update validates and replaces a product's fields.
	Update(ctx context.Context, id uuid.UUID, input *model.ProductInput) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderService defines read operations over a user's order history.
type OrderService interface {
	// ListByUser retrieves the user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// GetForUser retrieves one order, scoped to the owning user.
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
}

// PurchasedProductService defines operations over redeemed digital goods.
type PurchasedProductService interface {
	// ListForUser retrieves the user's purchased products, optionally
	// filtered by order.
	ListForUser(ctx context.Context, userID uuid.UUID, orderID *uuid.UUID) ([]model.PurchasedProduct, error)

	// UpdateStatus toggles a redemption code between not_applied and applied,
	// enforcing ownership.
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) (*model.PurchasedProduct, error)
}

// AuthService defines session lifecycle operations owned by this API. Session
// creation belongs to the external auth provider.
type AuthService interface {
	// Logout revokes the session token and drops any cached role for the user.
	Logout(ctx context.Context, token string, userID uuid.UUID) error
}
