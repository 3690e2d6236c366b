package cartstore

import (
	"context"
	"sync"
	"sync/atomic"

	"neon-market/internal/model"

	"github.com/google/uuid"
)

// Checkout gates and executes the purchase. It caches the last balance seen
// from the server; the cached value is only ever replaced by a fresh server
// read, never decremented locally.
type Checkout struct {
	api   API
	store *Store

	mu      sync.Mutex
	balance float64

	inFlight atomic.Bool
}

// NewCheckout creates a checkout coordinator over the store and API.
func NewCheckout(api API, store *Store) *Checkout {
	return &Checkout{api: api, store: store}
}

// Balance returns the cached balance.
func (c *Checkout) Balance() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance
}

// RefreshBalance reads the balance from the server and caches it.
func (c *Checkout) RefreshBalance(ctx context.Context) error {
	balance, err := c.api.Balance(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.balance = balance
	c.mu.Unlock()
	return nil
}

// HasEnoughBalance reports whether the cached balance covers the cart total.
func (c *Checkout) HasEnoughBalance() bool {
	return c.Balance() >= c.store.State().Total
}

// Purchase executes the purchase transaction and returns the created order
// ID. It refuses to run when the cart is empty, the cached balance does not
// cover the total, or another purchase is already in flight; the in-flight
// guard is atomic so a double invocation cannot trigger two transactions.
//
// On success the store is reset (the server cleared the cart inside the
// transaction) and the balance is re-read from the server. On failure the
// cart and cached balance are left untouched and the server error is
// returned verbatim.
func (c *Checkout) Purchase(ctx context.Context) (uuid.UUID, error) {
	state := c.store.State()
	if state.ItemCount == 0 {
		return uuid.Nil, model.ErrPurchaseNotPermitted
	}
	if c.Balance() < state.Total {
		return uuid.Nil, model.ErrPurchaseNotPermitted
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return uuid.Nil, model.ErrPurchaseInFlight
	}
	defer c.inFlight.Store(false)

	order, err := c.api.Purchase(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	c.store.reset()

	// The server is the sole authority on balance. A refresh failure here is
	// not a purchase failure; the stale cached value just over-reports until
	// the next successful refresh.
	_ = c.RefreshBalance(ctx)

	return order.ID, nil
}
