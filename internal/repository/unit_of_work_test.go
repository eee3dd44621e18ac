package repository

import (
	"context"
	"errors"
	"grocery_store/internal/models"
	"grocery_store/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWorkRollsBackOnError(t *testing.T) {
	db := testutil.NewDB(t)
	uow := NewUnitOfWork(db)
	product := testutil.SeedProduct(t, db, "Oil", "5.00", 3)
	boom := errors.New("boom")

	err := uow.Do(context.Background(), func(repos Repositories) error {
		if _, err := repos.Products.DecrementStock(context.Background(), product.ID, 2); err != nil {
			return err
		}
		if err := repos.Ledger.Append(context.Background(), &models.InventoryLedger{
			ProductID: product.ID, ChangeType: string(models.ChangeSale), QuantityChange: -2, NewQuantity: 1,
		}); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, testutil.Stock(t, db, product.ID))
	assert.Equal(t, int64(1), testutil.Count(t, db, &models.InventoryLedger{}))
}

func TestUnitOfWorkCommits(t *testing.T) {
	db := testutil.NewDB(t)
	uow := NewUnitOfWork(db)
	product := testutil.SeedProduct(t, db, "Oil", "5.00", 3)
	ctx := context.Background()

	err := uow.Do(ctx, func(repos Repositories) error {
		_, err := repos.Products.DecrementStock(ctx, product.ID, 1)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 2, testutil.Stock(t, db, product.ID))
}

func TestUnitOfWorkCancelledContext(t *testing.T) {
	db := testutil.NewDB(t)
	uow := NewUnitOfWork(db)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.Do(ctx, func(repos Repositories) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
