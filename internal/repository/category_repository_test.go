package repository

import (
	"context"
	"grocery_store/internal/models"
	"grocery_store/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryUpdateAndDuplicateName(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	grains := &models.Category{Name: "Grains", IsActive: true}
	require.NoError(t, repo.Create(ctx, grains))
	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Dairy", IsActive: true}))

	grains.Name = "Cereals"
	grains.IsActive = false
	require.NoError(t, repo.Update(ctx, grains))

	got, err := repo.GetByID(ctx, grains.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cereals", got.Name)
	assert.False(t, got.IsActive)

	grains.Name = "Dairy"
	assert.ErrorIs(t, repo.Update(ctx, grains), ErrDuplicate)
	assert.ErrorIs(t, repo.Update(ctx, &models.Category{ID: 999, Name: "Ghost"}), ErrNotFound)
}

func TestCategoryDeleteDetachesProducts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	fruit := &models.Category{Name: "Fruit", IsActive: true}
	require.NoError(t, repo.Create(ctx, fruit))
	apple := testutil.SeedProduct(t, db, "Apple", "0.50", 10)
	pear := testutil.SeedProduct(t, db, "Pear", "0.70", 10)
	for _, p := range []*models.Product{apple, pear} {
		require.NoError(t, db.Model(p).Update("category_id", fruit.ID).Error)
	}
	require.NoError(t, NewProductRepository(db).Delete(ctx, pear.ID))

	require.NoError(t, repo.Delete(ctx, fruit.ID))

	_, err := repo.GetByID(ctx, fruit.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	var attached int64
	require.NoError(t, db.Unscoped().Model(&models.Product{}).Where("category_id IS NOT NULL").Count(&attached).Error)
	assert.Zero(t, attached)
	assert.ErrorIs(t, repo.Delete(ctx, fruit.ID), ErrNotFound)
}

func TestUnitUpdateAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	unit := &models.UnitOfMeasure{Name: "Kilogram", Abbreviation: "kg"}
	require.NoError(t, repo.CreateUnit(ctx, unit))
	rice := testutil.SeedProduct(t, db, "Rice", "1.00", 5)
	require.NoError(t, db.Model(rice).Update("unit_of_measure_id", unit.ID).Error)

	unit.Abbreviation = "KG"
	require.NoError(t, repo.UpdateUnit(ctx, unit))
	got, err := repo.GetUnitByID(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, "KG", got.Abbreviation)

	require.NoError(t, repo.DeleteUnit(ctx, unit.ID))
	units, err := repo.ListUnits(ctx)
	require.NoError(t, err)
	assert.Empty(t, units)

	var product models.Product
	require.NoError(t, db.First(&product, rice.ID).Error)
	assert.Nil(t, product.UnitOfMeasureID)
	assert.ErrorIs(t, repo.DeleteUnit(ctx, unit.ID), ErrNotFound)
}
