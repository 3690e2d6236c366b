// Package cartstore holds the client-side view of a user's cart and drives
// checkout. State changes are confirm-then-apply: nothing mutates locally
// until the server has confirmed the operation, so a failed call leaves the
// previous state intact with only the error field set.
package cartstore

import (
	"context"
	"sync"

	"neon-market/internal/model"

	"github.com/google/uuid"
)

// API is the persistence boundary the store drives. The HTTP client in
// internal/client implements it against the server surface.
type API interface {
	FetchCart(ctx context.Context) ([]model.CartItem, error)
	AddToCart(ctx context.Context, productID uuid.UUID, quantity int) (*model.CartItem, error)
	UpdateCartItem(ctx context.Context, itemID uuid.UUID, quantity int) (*model.CartItem, error)
	RemoveCartItem(ctx context.Context, itemID uuid.UUID) error
	ClearCart(ctx context.Context) error
	Purchase(ctx context.Context) (*model.Order, error)
	Balance(ctx context.Context) (float64, error)
}

// State is a snapshot of the store. Total and ItemCount are always derived
// from Items, never tracked independently.
type State struct {
	Items     []model.CartItem
	Total     float64
	ItemCount int
	Loading   bool
	Err       string
}

// Store holds the authoritative client-side cart view.
type Store struct {
	api API

	mu        sync.Mutex
	items     []model.CartItem
	total     float64
	itemCount int
	loading   bool
	err       string
}

// NewStore creates an empty cart store over the given API.
func NewStore(api API) *Store {
	return &Store{api: api}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.CartItem, len(s.items))
	copy(items, s.items)

	return State{
		Items:     items,
		Total:     s.total,
		ItemCount: s.itemCount,
		Loading:   s.loading,
		Err:       s.err,
	}
}

// derive recomputes total and item count from a line list.
func derive(items []model.CartItem) (float64, int) {
	var total float64
	var count int
	for i := range items {
		total += items[i].LineTotal()
		count += items[i].Quantity
	}
	return total, count
}

// begin marks the store loading and clears any stale error.
func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

// fail records the error without touching the item list.
func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.loading = false
	s.err = err.Error()
	s.mu.Unlock()
	return err
}

// apply replaces the item list and recomputes the derived fields.
func (s *Store) apply(items []model.CartItem) {
	s.mu.Lock()
	s.items = items
	s.total, s.itemCount = derive(items)
	s.loading = false
	s.err = ""
	s.mu.Unlock()
}

// Fetch replaces the item list wholesale from the server. Safe to call
// repeatedly; a failure preserves the prior state.
func (s *Store) Fetch(ctx context.Context) error {
	s.begin()

	items, err := s.api.FetchCart(ctx)
	if err != nil {
		return s.fail(err)
	}

	s.apply(items)
	return nil
}

// Add requests an upsert for the product and reconciles with the confirmed
// line. If a line for the product already exists locally its quantity is
// replaced with the server-returned value; the server computed the merge, so
// summing client-side would double-count.
func (s *Store) Add(ctx context.Context, productID uuid.UUID, quantity int) error {
	s.begin()

	item, err := s.api.AddToCart(ctx, productID, quantity)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	items := make([]model.CartItem, len(s.items))
	copy(items, s.items)
	s.mu.Unlock()

	merged := false
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i] = *item
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, *item)
	}

	s.apply(items)
	return nil
}

// UpdateQuantity replaces a line's quantity with the server-confirmed value.
// A non-positive quantity is rejected before any network call.
func (s *Store) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	if quantity < 1 {
		s.mu.Lock()
		s.err = model.ErrInvalidQuantity.Message
		s.mu.Unlock()
		return model.ErrInvalidQuantity
	}

	s.begin()

	item, err := s.api.UpdateCartItem(ctx, itemID, quantity)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	items := make([]model.CartItem, len(s.items))
	copy(items, s.items)
	s.mu.Unlock()

	for i := range items {
		if items[i].ID == item.ID {
			items[i] = *item
			break
		}
	}

	s.apply(items)
	return nil
}

// Remove deletes a line after server confirmation.
func (s *Store) Remove(ctx context.Context, itemID uuid.UUID) error {
	s.begin()

	if err := s.api.RemoveCartItem(ctx, itemID); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	items := make([]model.CartItem, 0, len(s.items))
	for i := range s.items {
		if s.items[i].ID != itemID {
			items = append(items, s.items[i])
		}
	}
	s.mu.Unlock()

	s.apply(items)
	return nil
}

// Clear empties the cart after server confirmation.
func (s *Store) Clear(ctx context.Context) error {
	s.begin()

	if err := s.api.ClearCart(ctx); err != nil {
		return s.fail(err)
	}

	s.apply([]model.CartItem{})
	return nil
}

// reset empties the store locally. Used after a purchase, where the server
// has already cleared the cart inside the transaction.
func (s *Store) reset() {
	s.apply([]model.CartItem{})
}
