package services

import (
	"context"
	"grocery_store/internal/models"
	"grocery_store/internal/repository"
	"grocery_store/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB) *orderService {
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewUnitOfWork(db),
		zap.NewNop(),
	).(*orderService)
}

func placeOrder(t *testing.T, db *gorm.DB, lines ...CartLine) *models.Order {
	t.Helper()
	confirmation, err := newCheckout(db).CreateOrder(context.Background(), checkoutRequest(lines...), nil)
	require.NoError(t, err)
	return confirmation.Order
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.OrderPending, models.OrderPaid, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPending, models.OrderShipped, false},
		{models.OrderPaid, models.OrderShipped, true},
		{models.OrderPaid, models.OrderCancelled, true},
		{models.OrderPaid, models.OrderPending, false},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderShipped, models.OrderCancelled, false},
		{models.OrderDelivered, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderPending, false},
		{models.OrderPending, models.OrderPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestUpdateStatusStampsPaymentOnce(t *testing.T) {
	db := testutil.NewDB(t)
	product := testutil.SeedProduct(t, db, "Rice", "10.00", 5)
	order := placeOrder(t, db, line(product.ID, 1, "10.00"))
	svc := newOrderService(db)
	paidAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return paidAt }
	ctx := context.Background()

	paid, err := svc.UpdateStatus(ctx, order.ID, "paid", "wave ref 123", nil)
	require.NoError(t, err)
	require.NotNil(t, paid.PaymentConfirmedAt)
	assert.True(t, paid.PaymentConfirmedAt.Equal(paidAt))
	assert.Equal(t, "wave ref 123", paid.PaymentNotes)

	svc.now = func() time.Time { return paidAt.Add(48 * time.Hour) }
	shipped, err := svc.UpdateStatus(ctx, order.ID, "shipped", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "shipped", shipped.Status)
	assert.True(t, shipped.PaymentConfirmedAt.Equal(paidAt))
	assert.Equal(t, "wave ref 123", shipped.PaymentNotes)

	stored, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "shipped", stored.Status)
	require.NotNil(t, stored.PaymentConfirmedAt)
	assert.True(t, stored.PaymentConfirmedAt.Equal(paidAt))
}

func TestUpdateStatusRejectsInvalid(t *testing.T) {
	db := testutil.NewDB(t)
	product := testutil.SeedProduct(t, db, "Rice", "10.00", 5)
	order := placeOrder(t, db, line(product.ID, 1, "10.00"))
	svc := newOrderService(db)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, order.ID, "refunded", "", nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, order.ID, "delivered", "", nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, order.ID+99, "paid", "", nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	stored, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", stored.Status)
}

func TestCancelRestocksWithReturnEntries(t *testing.T) {
	db := testutil.NewDB(t)
	rice := testutil.SeedProduct(t, db, "Rice", "10.00", 5)
	oil := testutil.SeedProduct(t, db, "Oil", "2.00", 8)
	order := placeOrder(t, db, line(rice.ID, 2, "10.00"), line(oil.ID, 3, "2.00"))
	svc := newOrderService(db)
	adminID := uint(1)

	cancelled, err := svc.UpdateStatus(context.Background(), order.ID, "cancelled", "customer asked", &adminID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, 5, testutil.Stock(t, db, rice.ID))
	assert.Equal(t, 8, testutil.Stock(t, db, oil.ID))

	entries := ledgerFor(t, db, rice.ID)
	require.Len(t, entries, 3)
	last := entries[2]
	assert.Equal(t, string(models.ChangeReturn), last.ChangeType)
	assert.Equal(t, 2, last.QuantityChange)
	assert.Equal(t, 5, last.NewQuantity)
	require.NotNil(t, last.UserID)
	assert.Equal(t, adminID, *last.UserID)

	_, err = svc.UpdateStatus(context.Background(), order.ID, "cancelled", "", nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 5, testutil.Stock(t, db, rice.ID))
}

func TestCancelSkipsRemovedProducts(t *testing.T) {
	db := testutil.NewDB(t)
	rice := testutil.SeedProduct(t, db, "Rice", "10.00", 5)
	order := placeOrder(t, db, line(rice.ID, 2, "10.00"))
	require.NoError(t, repository.NewProductRepository(db).Delete(context.Background(), rice.ID))
	svc := newOrderService(db)

	_, err := svc.UpdateStatus(context.Background(), order.ID, "cancelled", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, testutil.Stock(t, db, rice.ID))
	assert.Len(t, ledgerFor(t, db, rice.ID), 2)
}

func TestOrderLookups(t *testing.T) {
	db := testutil.NewDB(t)
	product := testutil.SeedProduct(t, db, "Rice", "1.00", 50)
	userID := uint(42)
	confirmation, err := newCheckout(db).CreateOrder(context.Background(), checkoutRequest(line(product.ID, 1, "1.00")), &userID)
	require.NoError(t, err)
	placeOrder(t, db, line(product.ID, 1, "1.00"))
	svc := newOrderService(db)
	ctx := context.Background()

	byRef, err := svc.GetOrderByReference(ctx, confirmation.OrderReference)
	require.NoError(t, err)
	assert.Equal(t, confirmation.OrderID, byRef.ID)
	require.Len(t, byRef.Items, 1)

	_, err = svc.GetOrderByReference(ctx, "GROCER-ZZZZZZ")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	mine, err := svc.GetUserOrders(ctx, userID, 0, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, confirmation.OrderID, mine[0].ID)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = svc.ListOrders(ctx, repository.OrderFilter{Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDashboard(t *testing.T) {
	db := testutil.NewDB(t)
	product := testutil.SeedProduct(t, db, "Rice", "10.00", 5)
	first := placeOrder(t, db, line(product.ID, 2, "10.00"))
	placeOrder(t, db, line(product.ID, 1, "10.00"))
	svc := newOrderService(db)
	_, err := svc.UpdateStatus(context.Background(), first.ID, "paid", "", nil)
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), dashboard.TotalOrders)
	assert.Equal(t, int64(1), dashboard.OrdersByStatus["paid"])
	assert.Equal(t, int64(1), dashboard.OrdersByStatus["pending"])
	assert.Equal(t, "20.00", dashboard.Revenue.StringFixed(2))
	assert.Equal(t, 1, dashboard.LowStockCount)
	assert.Len(t, dashboard.RecentOrders, 2)
}

func TestStartPaymentOnlyForPendingOrders(t *testing.T) {
	db := testutil.NewDB(t)
	product := testutil.SeedProduct(t, db, "Rice", "10.00", 5)
	order := placeOrder(t, db, line(product.ID, 1, "10.00"))
	svc := newOrderService(db)
	ctx := context.Background()

	started, err := svc.StartPayment(ctx, order.OrderReference)
	require.NoError(t, err)
	assert.Equal(t, order.ID, started.ID)
	assert.Equal(t, string(models.OrderPending), started.Status)
	require.Len(t, started.Items, 1)

	_, err = svc.StartPayment(ctx, "GROCER-ZZZZZZ")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.UpdateStatus(ctx, order.ID, string(models.OrderCancelled), "", nil)
	require.NoError(t, err)
	_, err = svc.StartPayment(ctx, order.OrderReference)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
