package repository

import (
	"context"
	"grocery_store/internal/models"
	"grocery_store/internal/testutil"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(reference, status, total string) *models.Order {
	return &models.Order{
		OrderReference:  reference,
		Status:          status,
		TotalAmount:     decimal.RequireFromString(total),
		CustomerName:    "Awa",
		CustomerEmail:   "awa@example.com",
		ShippingAddress: "1 Rue",
		ShippingCity:    "Dakar",
	}
}

func TestOrderCreateAndRead(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := newOrder("GROCER-ABC123", "pending", "25.00")
	require.NoError(t, repo.Create(ctx, order))
	require.NotZero(t, order.ID)

	productID := uint(7)
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.AddItem(ctx, &models.OrderItem{
			OrderID:      order.ID,
			ProductID:    &productID,
			ProductName:  "Tea",
			ProductPrice: decimal.RequireFromString("12.50"),
			Quantity:     1,
			Subtotal:     decimal.RequireFromString("12.50"),
		}))
	}

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, "25.00", got.TotalAmount.StringFixed(2))

	byRef, err := repo.GetByReference(ctx, "GROCER-ABC123")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byRef.ID)

	exists, err := repo.ReferenceExists(ctx, "GROCER-ABC123")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ReferenceExists(ctx, "GROCER-ZZZZZZ")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.GetByID(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderDuplicateReference(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newOrder("GROCER-DUP000", "pending", "1.00")))
	err := repo.Create(ctx, newOrder("GROCER-DUP000", "pending", "1.00"))
	assert.Error(t, err)
}

func TestOrderStatsAndListing(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newOrder("GROCER-000001", "pending", "10.00")))
	require.NoError(t, repo.Create(ctx, newOrder("GROCER-000002", "paid", "20.50")))
	require.NoError(t, repo.Create(ctx, newOrder("GROCER-000003", "delivered", "4.25")))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["pending"])
	assert.Equal(t, int64(1), counts["paid"])

	revenue, err := repo.Revenue(ctx, []string{"paid", "shipped", "delivered"})
	require.NoError(t, err)
	assert.Equal(t, "24.75", revenue.StringFixed(2))

	none, err := repo.Revenue(ctx, []string{"cancelled"})
	require.NoError(t, err)
	assert.True(t, none.IsZero())

	pending, err := repo.List(ctx, OrderFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "GROCER-000001", pending[0].OrderReference)

	page, err := repo.List(ctx, OrderFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestOrderTransitionStatus(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := newOrder("GROCER-STAT01", "pending", "10.00")
	require.NoError(t, repo.Create(ctx, order))

	order.Status = "paid"
	order.PaymentNotes = "wave ok"
	order.TotalAmount = decimal.RequireFromString("999")
	require.NoError(t, repo.TransitionStatus(ctx, order, "pending"))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", got.Status)
	assert.Equal(t, "wave ok", got.PaymentNotes)
	assert.Equal(t, "10.00", got.TotalAmount.StringFixed(2))

	order.Status = "cancelled"
	assert.ErrorIs(t, repo.TransitionStatus(ctx, order, "pending"), ErrStaleStatus)
}
