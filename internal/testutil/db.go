// Package testutil provides an in-memory database seeded for package tests.
package testutil

import (
	"context"
	"fmt"
	"grocery_store/internal/database"
	"grocery_store/internal/models"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private shared-cache SQLite database with the full schema.
// The pool holds one connection, so concurrent transactions queue up the
// way they would behind a row lock.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// SeedProduct inserts an active product and its Initial Stock ledger row.
func SeedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:              name,
		Description:       name,
		Price:             decimal.RequireFromString(price),
		StockQuantity:     stock,
		LowStockThreshold: 2,
		IsActive:          true,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(product).Error)
	require.NoError(t, db.Create(&models.InventoryLedger{
		ProductID:      product.ID,
		ChangeType:     string(models.ChangeInitialStock),
		QuantityChange: stock,
		NewQuantity:    stock,
		Notes:          "seed",
	}).Error)
	return product
}

// Stock reads the current stock straight from the table.
func Stock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()

	var product models.Product
	require.NoError(t, db.Unscoped().First(&product, productID).Error)
	return product.StockQuantity
}

// Count returns the number of rows in model's table.
func Count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
