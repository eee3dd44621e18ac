package repository

import (
	"context"
	"grocery_store/internal/models"
	"grocery_store/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerAppendValidation(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Append(ctx, &models.InventoryLedger{ChangeType: "Sale"}), ErrInvalidLedgerEntry)
	assert.ErrorIs(t, repo.Append(ctx, &models.InventoryLedger{ProductID: 1}), ErrInvalidLedgerEntry)
	assert.ErrorIs(t, repo.Append(ctx, &models.InventoryLedger{ProductID: 1, ChangeType: "Sale", NewQuantity: -1}), ErrInvalidLedgerEntry)
}

func TestLedgerNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()
	product := testutil.SeedProduct(t, db, "Flour", "2.00", 10)

	require.NoError(t, repo.Append(ctx, &models.InventoryLedger{
		ProductID: product.ID, ChangeType: string(models.ChangeSale), QuantityChange: -4, NewQuantity: 6,
	}))
	require.NoError(t, repo.Append(ctx, &models.InventoryLedger{
		ProductID: product.ID, ChangeType: string(models.ChangeReturn), QuantityChange: 1, NewQuantity: 7,
	}))

	entries, err := repo.GetForProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, string(models.ChangeReturn), entries[0].ChangeType)
	assert.Equal(t, string(models.ChangeInitialStock), entries[2].ChangeType)

	recent, err := repo.Recent(ctx, time.Now().Add(-time.Hour), 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
