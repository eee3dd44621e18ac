package repository

import (
	"context"
	"grocery_store/internal/models"
	"time"

	"gorm.io/gorm"
)

type LedgerRepository interface {
	Append(ctx context.Context, entry *models.InventoryLedger) error
	GetForProduct(ctx context.Context, productID uint) ([]models.InventoryLedger, error)
	Recent(ctx context.Context, since time.Time, limit int) ([]models.InventoryLedger, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

// Append inserts a new row. There is no update or delete counterpart.
func (r *ledgerRepository) Append(ctx context.Context, entry *models.InventoryLedger) error {
	if entry.ProductID == 0 || entry.ChangeType == "" || entry.NewQuantity < 0 {
		return ErrInvalidLedgerEntry
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetForProduct returns the product's entries newest first.
func (r *ledgerRepository) GetForProduct(ctx context.Context, productID uint) ([]models.InventoryLedger, error) {
	var entries []models.InventoryLedger
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) Recent(ctx context.Context, since time.Time, limit int) ([]models.InventoryLedger, error) {
	var entries []models.InventoryLedger
	err := paginate(r.db.WithContext(ctx), limit, 0).
		Where("created_at >= ?", since).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}
