package repository

import (
	"context"

	"neon-market/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines the interface for user and session data access.
type UserRepository interface {
	// GetByID retrieves a user by ID. Returns nil when the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetBySessionToken resolves a bearer token to its user. Returns nil when
	// the token is unknown or the session has expired.
	GetBySessionToken(ctx context.Context, token string) (*model.User, error)

	// DeleteSession revokes a session token.
	DeleteSession(ctx context.Context, token string) error

	// GetBalance returns the user's current balance.
	GetBalance(ctx context.Context, userID uuid.UUID) (float64, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// ListActive retrieves active products with pagination and optional
	// case-insensitive name search. Returns products and the total match count.
	ListActive(ctx context.Context, limit, offset int, search string) ([]model.Product, int, error)

	// List retrieves all products, active or not, for the admin surface.
	List(ctx context.Context, limit, offset int, search string) ([]model.Product, int, error)

	// GetByID retrieves a single product by its ID. Returns nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetActiveByID retrieves a product only if it is active.
	GetActiveByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update replaces a product's mutable fields. Returns false when the
	// product does not exist.
	Update(ctx context.Context, product *model.Product) (bool, error)

	// Delete removes a product. Returns false when the product does not exist.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// UpsertSeed inserts catalogue seed products, updating existing rows by ID.
	UpsertSeed(ctx context.Context, products []model.Product) error
}

// CartRepository defines the interface for cart line data access operations.
// All reads join the current product row so callers always see live prices.
type CartRepository interface {
	// ListByUser retrieves the user's cart lines, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)

	// GetItem retrieves a single cart line by ID. Returns nil when missing.
	GetItem(ctx context.Context, itemID uuid.UUID) (*model.CartItem, error)

	// Upsert adds quantity of a product to the user's cart, merging into the
	// existing line for that product if one exists.
	Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.CartItem, error)

	// UpdateQuantity replaces a line's quantity. Returns nil when the line
	// does not exist.
	UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*model.CartItem, error)

	// Delete removes a single cart line.
	Delete(ctx context.Context, itemID uuid.UUID) error

	// DeleteAllForUser empties the user's cart.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

// OrderRepository defines the interface for order data access, including the
// primitives the purchase transaction composes inside a single pgx.Tx.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// ListCartForPurchase retrieves the user's cart lines with joined product
	// rows inside the transaction.
	ListCartForPurchase(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]model.CartItem, error)

	// GetBalanceForUpdate reads the user's balance under a row lock, blocking
	// concurrent purchase transactions for the same user.
	GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (float64, error)

	// DebitBalance subtracts amount from the user's balance. The update is
	// guarded so the balance can never go negative.
	DebitBalance(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount float64) error

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreatePurchasedProducts inserts purchased product rows within the
	// provided transaction.
	CreatePurchasedProducts(ctx context.Context, tx pgx.Tx, items []model.PurchasedProduct) error

	// ClearCart deletes all of the user's cart lines within the transaction.
	ClearCart(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error

	// ListByUser retrieves the user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// GetByID retrieves an order by its ID. Returns nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

// PurchasedProductRepository defines the interface for purchased product data
// access operations.
type PurchasedProductRepository interface {
	// ListByUser retrieves the user's purchased products, newest first,
	// optionally filtered by order.
	ListByUser(ctx context.Context, userID uuid.UUID, orderID *uuid.UUID) ([]model.PurchasedProduct, error)

	// GetByID retrieves a purchased product by ID. Returns nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.PurchasedProduct, error)

	// UpdateStatus sets the status of a purchased product and returns the
	// updated row. Returns nil when the row does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.PurchasedProduct, error)
}
