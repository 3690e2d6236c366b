package cartstore

import (
	"context"
	"errors"
	"testing"

	"neon-market/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAPI implements API with overridable function fields so each test
// controls exactly what the server confirms.
type stubAPI struct {
	fetchCart      func(ctx context.Context) ([]model.CartItem, error)
	addToCart      func(ctx context.Context, productID uuid.UUID, quantity int) (*model.CartItem, error)
	updateCartItem func(ctx context.Context, itemID uuid.UUID, quantity int) (*model.CartItem, error)
	removeCartItem func(ctx context.Context, itemID uuid.UUID) error
	clearCart      func(ctx context.Context) error
	purchase       func(ctx context.Context) (*model.Order, error)
	balance        func(ctx context.Context) (float64, error)

	calls int
}

func (s *stubAPI) FetchCart(ctx context.Context) ([]model.CartItem, error) {
	s.calls++
	return s.fetchCart(ctx)
}

func (s *stubAPI) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) (*model.CartItem, error) {
	s.calls++
	return s.addToCart(ctx, productID, quantity)
}

func (s *stubAPI) UpdateCartItem(ctx context.Context, itemID uuid.UUID, quantity int) (*model.CartItem, error) {
	s.calls++
	return s.updateCartItem(ctx, itemID, quantity)
}

func (s *stubAPI) RemoveCartItem(ctx context.Context, itemID uuid.UUID) error {
	s.calls++
	return s.removeCartItem(ctx, itemID)
}

func (s *stubAPI) ClearCart(ctx context.Context) error {
	s.calls++
	return s.clearCart(ctx)
}

func (s *stubAPI) Purchase(ctx context.Context) (*model.Order, error) {
	s.calls++
	return s.purchase(ctx)
}

func (s *stubAPI) Balance(ctx context.Context) (float64, error) {
	s.calls++
	return s.balance(ctx)
}

// cartLine builds a cart line with a joined product at the given price.
func cartLine(price float64, quantity int) model.CartItem {
	productID := uuid.New()
	return model.CartItem{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ProductID: productID,
		Quantity:  quantity,
		Product: &model.Product{
			ID:       productID,
			Name:     "Product",
			Price:    price,
			IsActive: true,
		},
	}
}

func TestStore_FetchDerivesTotals(t *testing.T) {
	lines := []model.CartItem{cartLine(10.00, 2), cartLine(5.00, 1)}

	api := &stubAPI{fetchCart: func(ctx context.Context) ([]model.CartItem, error) {
		return lines, nil
	}}
	store := NewStore(api)

	require.NoError(t, store.Fetch(context.Background()))

	state := store.State()
	assert.Len(t, state.Items, 2)
	assert.Equal(t, 25.00, state.Total)
	assert.Equal(t, 3, state.ItemCount)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Err)
}

func TestStore_FetchIsIdempotent(t *testing.T) {
	lines := []model.CartItem{cartLine(10.00, 2)}

	api := &stubAPI{fetchCart: func(ctx context.Context) ([]model.CartItem, error) {
		return lines, nil
	}}
	store := NewStore(api)

	require.NoError(t, store.Fetch(context.Background()))
	first := store.State()

	require.NoError(t, store.Fetch(context.Background()))
	second := store.State()

	assert.Equal(t, first, second)
}

func TestStore_FetchFailurePreservesState(t *testing.T) {
	lines := []model.CartItem{cartLine(10.00, 2)}
	fail := false

	api := &stubAPI{fetchCart: func(ctx context.Context) ([]model.CartItem, error) {
		if fail {
			return nil, errors.New("connection refused")
		}
		return lines, nil
	}}
	store := NewStore(api)

	require.NoError(t, store.Fetch(context.Background()))

	fail = true
	require.Error(t, store.Fetch(context.Background()))

	state := store.State()
	assert.Len(t, state.Items, 1)
	assert.Equal(t, 20.00, state.Total)
	assert.Equal(t, "connection refused", state.Err)
	assert.False(t, state.Loading)
}

func TestStore_AddMergesByProduct(t *testing.T) {
	line := cartLine(10.00, 1)

	api := &stubAPI{addToCart: func(ctx context.Context, productID uuid.UUID, quantity int) (*model.CartItem, error) {
		// Server merges quantity into the existing line and returns the
		// authoritative row.
		confirmed := line
		confirmed.Quantity = line.Quantity + quantity
		line = confirmed
		return &confirmed, nil
	}}
	store := NewStore(api)

	require.NoError(t, store.Add(context.Background(), line.ProductID, 1))
	require.NoError(t, store.Add(context.Background(), line.ProductID, 3))

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 5, state.Items[0].Quantity)
	assert.Equal(t, 50.00, state.Total)
	assert.Equal(t, 5, state.ItemCount)
}

func TestStore_AddAppendsNewProduct(t *testing.T) {
	first := cartLine(10.00, 2)
	second := cartLine(5.00, 1)
	responses := []*model.CartItem{&first, &second}

	api := &stubAPI{addToCart: func(ctx context.Context, productID uuid.UUID, quantity int) (*model.CartItem, error) {
		item := responses[0]
		responses = responses[1:]
		return item, nil
	}}
	store := NewStore(api)

	require.NoError(t, store.Add(context.Background(), first.ProductID, 2))
	require.NoError(t, store.Add(context.Background(), second.ProductID, 1))

	state := store.State()
	assert.Len(t, state.Items, 2)
	assert.Equal(t, 25.00, state.Total)
	assert.Equal(t, 3, state.ItemCount)
}

func TestStore_UpdateQuantityValidatesBeforeNetwork(t *testing.T) {
	api := &stubAPI{}
	store := NewStore(api)

	err := store.UpdateQuantity(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	err = store.UpdateQuantity(context.Background(), uuid.New(), -3)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	assert.Zero(t, api.calls, "no network call should happen for invalid quantity")
	assert.Equal(t, model.ErrInvalidQuantity.Message, store.State().Err)
}

func TestStore_UpdateQuantityReplacesLine(t *testing.T) {
	line := cartLine(10.00, 2)

	api := &stubAPI{
		fetchCart: func(ctx context.Context) ([]model.CartItem, error) {
			return []model.CartItem{line}, nil
		},
		updateCartItem: func(ctx context.Context, itemID uuid.UUID, quantity int) (*model.CartItem, error) {
			confirmed := line
			confirmed.Quantity = quantity
			return &confirmed, nil
		},
	}
	store := NewStore(api)

	require.NoError(t, store.Fetch(context.Background()))
	require.NoError(t, store.UpdateQuantity(context.Background(), line.ID, 5))

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 5, state.Items[0].Quantity)
	assert.Equal(t, 50.00, state.Total)
}

func TestStore_RemoveDeletesLine(t *testing.T) {
	keep := cartLine(10.00, 2)
	drop := cartLine(5.00, 1)

	api := &stubAPI{
		fetchCart: func(ctx context.Context) ([]model.CartItem, error) {
			return []model.CartItem{keep, drop}, nil
		},
		removeCartItem: func(ctx context.Context, itemID uuid.UUID) error {
			return nil
		},
	}
	store := NewStore(api)

	require.NoError(t, store.Fetch(context.Background()))
	require.NoError(t, store.Remove(context.Background(), drop.ID))

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, keep.ID, state.Items[0].ID)
	assert.Equal(t, 20.00, state.Total)
	assert.Equal(t, 2, state.ItemCount)
}

func TestStore_RemoveFailurePreservesState(t *testing.T) {
	line := cartLine(10.00, 2)

	api := &stubAPI{
		fetchCart: func(ctx context.Context) ([]model.CartItem, error) {
			return []model.CartItem{line}, nil
		},
		removeCartItem: func(ctx context.Context, itemID uuid.UUID) error {
			return errors.New("Cart item not found")
		},
	}
	store := NewStore(api)

	require.NoError(t, store.Fetch(context.Background()))
	require.Error(t, store.Remove(context.Background(), line.ID))

	state := store.State()
	assert.Len(t, state.Items, 1)
	assert.Equal(t, "Cart item not found", state.Err)
}

func TestStore_ClearResets(t *testing.T) {
	api := &stubAPI{
		fetchCart: func(ctx context.Context) ([]model.CartItem, error) {
			return []model.CartItem{cartLine(10.00, 2)}, nil
		},
		clearCart: func(ctx context.Context) error {
			return nil
		},
	}
	store := NewStore(api)

	require.NoError(t, store.Fetch(context.Background()))
	require.NoError(t, store.Clear(context.Background()))

	state := store.State()
	assert.Empty(t, state.Items)
	assert.Zero(t, state.Total)
	assert.Zero(t, state.ItemCount)
}
