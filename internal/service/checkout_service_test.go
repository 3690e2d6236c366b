package service

import (
	"context"
	"errors"
	"testing"

	"neon-market/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListCartForPurchase(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]model.CartItem, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockOrderRepository) GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (float64, error) {
	args := m.Called(ctx, tx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockOrderRepository) DebitBalance(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount float64) error {
	args := m.Called(ctx, tx, userID, amount)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreatePurchasedProducts(ctx context.Context, tx pgx.Tx, items []model.PurchasedProduct) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) ClearCart(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// purchaseCart builds the two-line cart used across the checkout tests:
// product A at 10.00 x2 and product B at 5.00 x1, total 25.00.
func purchaseCart(userID uuid.UUID) []model.CartItem {
	productA := &model.Product{ID: uuid.New(), Name: "Product A", Price: 10.00, IsActive: true}
	productB := &model.Product{ID: uuid.New(), Name: "Product B", Price: 5.00, IsActive: true}
	return []model.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productA.ID, Quantity: 2, Product: productA},
		{ID: uuid.New(), UserID: userID, ProductID: productB.ID, Quantity: 1, Product: productB},
	}
}

func TestCheckoutService_Purchase_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	userID := uuid.New()
	items := purchaseCart(userID)

	mockRepo := new(MockOrderRepository)
	mockTx := new(MockTx)
	svc := NewCheckoutService(mockRepo, logger)

	var createdPurchased []model.PurchasedProduct

	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("GetBalanceForUpdate", ctx, mockTx, userID).Return(30.00, nil)
	mockRepo.On("ListCartForPurchase", ctx, mockTx, userID).Return(items, nil)
	mockRepo.On("DebitBalance", ctx, mockTx, userID, 25.00).Return(nil)
	mockRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockRepo.On("CreatePurchasedProducts", ctx, mockTx, mock.AnythingOfType("[]model.PurchasedProduct")).
		Run(func(args mock.Arguments) {
			createdPurchased = args.Get(2).([]model.PurchasedProduct)
		}).
		Return(nil)
	mockRepo.On("ClearCart", ctx, mockTx, userID).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	order, err := svc.Purchase(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, 25.00, order.TotalAmount)
	assert.Equal(t, model.OrderStatusCompleted, order.Status)
	assert.Equal(t, userID, order.UserID)

	// One redemption code per unit of quantity: 2 + 1 = 3 rows, each with a
	// unique code, and their prices reconcile with the order total.
	require.Len(t, createdPurchased, 3)
	codes := make(map[string]bool)
	var sum float64
	for _, p := range createdPurchased {
		assert.Equal(t, order.ID, p.OrderID)
		assert.Equal(t, userID, p.UserID)
		assert.Equal(t, model.PurchasedStatusNotApplied, p.Status)
		assert.NotEmpty(t, p.ProductCode)
		codes[p.ProductCode] = true
		sum += p.Price
	}
	assert.Len(t, codes, 3)
	assert.Equal(t, order.TotalAmount, sum)

	mockRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
	assert.True(t, mockTx.committed)
}

func TestCheckoutService_Purchase_InsufficientBalance(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	userID := uuid.New()
	items := purchaseCart(userID)

	mockRepo := new(MockOrderRepository)
	mockTx := new(MockTx)
	svc := NewCheckoutService(mockRepo, logger)

	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("GetBalanceForUpdate", ctx, mockTx, userID).Return(20.00, nil)
	mockRepo.On("ListCartForPurchase", ctx, mockTx, userID).Return(items, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	order, err := svc.Purchase(ctx, userID)
	require.Error(t, err)
	assert.Nil(t, order)

	var balanceErr *model.InsufficientBalanceError
	require.ErrorAs(t, err, &balanceErr)
	assert.Equal(t, 25.00, balanceErr.Required)
	assert.Equal(t, 20.00, balanceErr.Available)

	mockRepo.AssertNotCalled(t, "DebitBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
	assert.True(t, mockTx.rolledBack)
}

func TestCheckoutService_Purchase_EmptyCart(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	userID := uuid.New()

	mockRepo := new(MockOrderRepository)
	mockTx := new(MockTx)
	svc := NewCheckoutService(mockRepo, logger)

	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("GetBalanceForUpdate", ctx, mockTx, userID).Return(30.00, nil)
	mockRepo.On("ListCartForPurchase", ctx, mockTx, userID).Return([]model.CartItem{}, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	order, err := svc.Purchase(ctx, userID)
	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrEmptyCart)

	mockRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	mockTx.AssertExpectations(t)
	assert.True(t, mockTx.rolledBack)
}

func TestCheckoutService_Purchase_RollbackAfterDebit(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	userID := uuid.New()
	items := purchaseCart(userID)

	mockRepo := new(MockOrderRepository)
	mockTx := new(MockTx)
	svc := NewCheckoutService(mockRepo, logger)

	// Order creation fails after the debit; the whole transaction must roll
	// back so the debit never persists on its own.
	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("GetBalanceForUpdate", ctx, mockTx, userID).Return(30.00, nil)
	mockRepo.On("ListCartForPurchase", ctx, mockTx, userID).Return(items, nil)
	mockRepo.On("DebitBalance", ctx, mockTx, userID, 25.00).Return(nil)
	mockRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).
		Return(errors.New("database error"))
	mockTx.On("Rollback", ctx).Return(nil)

	order, err := svc.Purchase(ctx, userID)
	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrTransactionFailure)

	mockRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
	assert.True(t, mockTx.rolledBack)
	assert.False(t, mockTx.committed)
}

func TestCheckoutService_Purchase_CommitFailure(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	userID := uuid.New()
	items := purchaseCart(userID)

	mockRepo := new(MockOrderRepository)
	mockTx := new(MockTx)
	svc := NewCheckoutService(mockRepo, logger)

	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("GetBalanceForUpdate", ctx, mockTx, userID).Return(30.00, nil)
	mockRepo.On("ListCartForPurchase", ctx, mockTx, userID).Return(items, nil)
	mockRepo.On("DebitBalance", ctx, mockTx, userID, 25.00).Return(nil)
	mockRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockRepo.On("CreatePurchasedProducts", ctx, mockTx, mock.AnythingOfType("[]model.PurchasedProduct")).Return(nil)
	mockRepo.On("ClearCart", ctx, mockTx, userID).Return(nil)
	mockTx.On("Commit", ctx).Return(errors.New("connection lost"))
	mockTx.On("Rollback", ctx).Return(pgx.ErrTxClosed)

	order, err := svc.Purchase(ctx, userID)
	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrTransactionFailure)
}

func TestCheckoutService_Purchase_BeginTxFailure(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockRepo := new(MockOrderRepository)
	svc := NewCheckoutService(mockRepo, logger)

	mockRepo.On("BeginTx", ctx).Return(nil, errors.New("pool exhausted"))

	order, err := svc.Purchase(ctx, uuid.New())
	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrTransactionFailure)
}

func TestCheckoutService_RoundsTotalToCents(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	userID := uuid.New()

	product := &model.Product{ID: uuid.New(), Name: "Odd Price", Price: 0.1, IsActive: true}
	items := []model.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: product.ID, Quantity: 3, Product: product},
	}

	mockRepo := new(MockOrderRepository)
	mockTx := new(MockTx)
	svc := NewCheckoutService(mockRepo, logger)

	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("GetBalanceForUpdate", ctx, mockTx, userID).Return(1.00, nil)
	mockRepo.On("ListCartForPurchase", ctx, mockTx, userID).Return(items, nil)
	mockRepo.On("DebitBalance", ctx, mockTx, userID, 0.30).Return(nil)
	mockRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockRepo.On("CreatePurchasedProducts", ctx, mockTx, mock.AnythingOfType("[]model.PurchasedProduct")).Return(nil)
	mockRepo.On("ClearCart", ctx, mockTx, userID).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	order, err := svc.Purchase(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0.30, order.TotalAmount)
}
