package services

import (
	"context"
	"errors"
	"fmt"
	"grocery_store/internal/models"
	"grocery_store/internal/repository"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CategoryStock struct {
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
	TotalStock   int    `json:"total_stock"`
}

type InventorySummary struct {
	TotalProducts      int             `json:"total_products"`
	TotalStockQuantity int             `json:"total_stock_quantity"`
	TotalStockValue    decimal.Decimal `json:"total_stock_value"`
	LowStockCount      int             `json:"low_stock_count"`
	OutOfStockCount    int             `json:"out_of_stock_count"`
	Categories         []CategoryStock `json:"categories"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

type InventoryService interface {
	// AdjustStock applies a signed manual correction and records it.
	AdjustStock(ctx context.Context, productID uint, delta int, notes string, actingUserID *uint) (*models.InventoryLedger, error)
	GetLedger(ctx context.Context, productID uint) ([]models.InventoryLedger, error)
	Summary(ctx context.Context) (*InventorySummary, error)
	LowStock(ctx context.Context) ([]models.Product, error)
	RecentMovements(ctx context.Context, days, limit int) ([]models.InventoryLedger, error)
}

type inventoryService struct {
	products repository.ProductRepository
	ledger   repository.LedgerRepository
	uow      repository.UnitOfWork
	logger   *zap.Logger
}

func NewInventoryService(products repository.ProductRepository, ledger repository.LedgerRepository, uow repository.UnitOfWork, logger *zap.Logger) InventoryService {
	return &inventoryService{products: products, ledger: ledger, uow: uow, logger: logger}
}

func (s *inventoryService) AdjustStock(ctx context.Context, productID uint, delta int, notes string, actingUserID *uint) (*models.InventoryLedger, error) {
	if delta == 0 {
		return nil, fmt.Errorf("%w: adjustment must be non-zero", ErrInvalidInput)
	}

	var entry *models.InventoryLedger
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		newQuantity, err := repos.Products.AdjustStock(ctx, productID, delta)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrProductNotFound
		case errors.Is(err, repository.ErrStockUnavailable):
			return ErrNegativeStock
		case err != nil:
			return err
		}

		entry = &models.InventoryLedger{
			ProductID:      productID,
			ChangeType:     string(models.ChangeManualAdjustment),
			QuantityChange: delta,
			NewQuantity:    newQuantity,
			UserID:         actingUserID,
			Notes:          notes,
		}
		return repos.Ledger.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.Uint("product_id", productID),
		zap.Int("delta", delta),
		zap.Int("new_quantity", entry.NewQuantity),
	)
	return entry, nil
}

// GetLedger returns entries newest first. Removed products keep their history.
func (s *inventoryService) GetLedger(ctx context.Context, productID uint) ([]models.InventoryLedger, error) {
	return s.ledger.GetForProduct(ctx, productID)
}

func (s *inventoryService) Summary(ctx context.Context) (*InventorySummary, error) {
	products, err := s.products.List(ctx, repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	summary := &InventorySummary{
		TotalStockValue: decimal.Zero,
		Categories:      []CategoryStock{},
		GeneratedAt:     time.Now(),
	}
	byCategory := map[string]int{}

	for i := range products {
		p := &products[i]
		summary.TotalProducts++
		summary.TotalStockQuantity += p.StockQuantity
		summary.TotalStockValue = summary.TotalStockValue.Add(models.LineTotal(p.Price, p.StockQuantity))
		if p.StockQuantity == 0 {
			summary.OutOfStockCount++
		}
		if p.IsLowStock() {
			summary.LowStockCount++
		}

		if p.Category == nil {
			continue
		}
		idx, ok := byCategory[p.Category.Name]
		if !ok {
			idx = len(summary.Categories)
			byCategory[p.Category.Name] = idx
			summary.Categories = append(summary.Categories, CategoryStock{Name: p.Category.Name})
		}
		summary.Categories[idx].ProductCount++
		summary.Categories[idx].TotalStock += p.StockQuantity
	}

	return summary, nil
}

func (s *inventoryService) LowStock(ctx context.Context) ([]models.Product, error) {
	return s.products.LowStock(ctx)
}

func (s *inventoryService) RecentMovements(ctx context.Context, days, limit int) ([]models.InventoryLedger, error) {
	if days <= 0 {
		days = 7
	}
	return s.ledger.Recent(ctx, time.Now().AddDate(0, 0, -days), limit)
}
