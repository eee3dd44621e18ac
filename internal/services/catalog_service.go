package services

import (
	"context"
	"errors"
	"fmt"
	"grocery_store/internal/models"
	"grocery_store/internal/repository"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductCache stores public product listings. Checkout never reads it.
type ProductCache interface {
	GetProducts(ctx context.Context, key string) ([]models.Product, bool, error)
	SetProducts(ctx context.Context, key string, products []models.Product) error
	InvalidateProducts(ctx context.Context) error
}

type ProductInput struct {
	Name              string          `json:"name" binding:"required"`
	Description       string          `json:"description" binding:"required"`
	Price             decimal.Decimal `json:"price" binding:"required"`
	ImageURL          string          `json:"image_url"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold *int            `json:"low_stock_threshold"`
	IsActive          *bool           `json:"is_active"`
	CategoryID        *uint           `json:"category_id"`
	UnitOfMeasureID   *uint           `json:"unit_of_measure_id"`
}

// ProductPatch carries optional edits. Stock is changed through InventoryService.
type ProductPatch struct {
	Name              *string          `json:"name"`
	Description       *string          `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	ImageURL          *string          `json:"image_url"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
	IsActive          *bool            `json:"is_active"`
	CategoryID        *uint            `json:"category_id"`
	UnitOfMeasureID   *uint            `json:"unit_of_measure_id"`
}

type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type UnitPatch struct {
	Name         *string `json:"name"`
	Abbreviation *string `json:"abbreviation"`
}

type CatalogService interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput, actingUserID *uint) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error)
	SetProductActive(ctx context.Context, id uint, active bool) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uint, patch CategoryPatch) (*models.Category, error)
	// DeleteCategory removes the category; its products become uncategorised.
	DeleteCategory(ctx context.Context, id uint) error
	ListUnits(ctx context.Context) ([]models.UnitOfMeasure, error)
	CreateUnit(ctx context.Context, name, abbreviation string) (*models.UnitOfMeasure, error)
	UpdateUnit(ctx context.Context, id uint, patch UnitPatch) (*models.UnitOfMeasure, error)
	DeleteUnit(ctx context.Context, id uint) error
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	uow        repository.UnitOfWork
	cache      ProductCache
	logger     *zap.Logger
}

// NewCatalogService builds the catalog service. cache may be nil.
func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository, uow repository.UnitOfWork, cache ProductCache, logger *zap.Logger) CatalogService {
	return &catalogService{products: products, categories: categories, uow: uow, cache: cache, logger: logger}
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	key := productCacheKey(filter)
	if s.cache != nil {
		if products, ok, err := s.cache.GetProducts(ctx, key); err != nil {
			s.logger.Warn("product cache read failed", zap.Error(err))
		} else if ok {
			return products, nil
		}
	}

	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, key, products); err != nil {
			s.logger.Warn("product cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

// CreateProduct inserts the product together with its Initial Stock ledger row.
func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput, actingUserID *uint) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !input.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if input.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock_quantity must not be negative", ErrInvalidInput)
	}
	if err := s.checkReferences(ctx, input.CategoryID, input.UnitOfMeasureID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:              strings.TrimSpace(input.Name),
		Description:       input.Description,
		Price:             input.Price,
		ImageURL:          input.ImageURL,
		StockQuantity:     input.StockQuantity,
		LowStockThreshold: 10,
		IsActive:          true,
		CategoryID:        input.CategoryID,
		UnitOfMeasureID:   input.UnitOfMeasureID,
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		return repos.Ledger.Append(ctx, &models.InventoryLedger{
			ProductID:      product.ID,
			ChangeType:     string(models.ChangeInitialStock),
			QuantityChange: product.StockQuantity,
			NewQuantity:    product.StockQuantity,
			UserID:         actingUserID,
			Notes:          "Product created",
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		if !patch.Price.IsPositive() {
			return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
		}
		product.Price = *patch.Price
	}
	if patch.ImageURL != nil {
		product.ImageURL = *patch.ImageURL
	}
	if patch.LowStockThreshold != nil {
		product.LowStockThreshold = *patch.LowStockThreshold
	}
	if patch.IsActive != nil {
		product.IsActive = *patch.IsActive
	}
	if patch.CategoryID != nil || patch.UnitOfMeasureID != nil {
		if err := s.checkReferences(ctx, patch.CategoryID, patch.UnitOfMeasureID); err != nil {
			return nil, err
		}
		if patch.CategoryID != nil {
			product.CategoryID = patch.CategoryID
		}
		if patch.UnitOfMeasureID != nil {
			product.UnitOfMeasureID = patch.UnitOfMeasureID
		}
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.invalidate(ctx)
	return s.GetProduct(ctx, id)
}

func (s *catalogService) SetProductActive(ctx context.Context, id uint, active bool) (*models.Product, error) {
	if err := s.products.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	s.invalidate(ctx)
	return s.GetProduct(ctx, id)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx, true)
}

func (s *catalogService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	category := &models.Category{Name: name, Description: description, IsActive: true}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrInvalidInput, name)
		}
		return nil, err
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uint, patch CategoryPatch) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		category.Name = name
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}
	if patch.IsActive != nil {
		category.IsActive = *patch.IsActive
	}

	if err := s.categories.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("%w: category %q already exists", ErrInvalidInput, category.Name)
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	s.invalidate(ctx)
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uint) error {
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		return repos.Categories.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("category deleted", zap.Uint("category_id", id))
	return nil
}

func (s *catalogService) ListUnits(ctx context.Context) ([]models.UnitOfMeasure, error) {
	return s.categories.ListUnits(ctx)
}

func (s *catalogService) CreateUnit(ctx context.Context, name, abbreviation string) (*models.UnitOfMeasure, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	unit := &models.UnitOfMeasure{Name: name, Abbreviation: abbreviation}
	if err := s.categories.CreateUnit(ctx, unit); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: unit %q already exists", ErrInvalidInput, name)
		}
		return nil, err
	}
	return unit, nil
}

func (s *catalogService) UpdateUnit(ctx context.Context, id uint, patch UnitPatch) (*models.UnitOfMeasure, error) {
	unit, err := s.categories.GetUnitByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		unit.Name = name
	}
	if patch.Abbreviation != nil {
		unit.Abbreviation = *patch.Abbreviation
	}

	if err := s.categories.UpdateUnit(ctx, unit); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("%w: unit %q already exists", ErrInvalidInput, unit.Name)
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	s.invalidate(ctx)
	return unit, nil
}

func (s *catalogService) DeleteUnit(ctx context.Context, id uint) error {
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		return repos.Categories.DeleteUnit(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnitNotFound
		}
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("unit of measure deleted", zap.Uint("unit_id", id))
	return nil
}

func (s *catalogService) checkReferences(ctx context.Context, categoryID, unitID *uint) error {
	if categoryID != nil {
		if _, err := s.categories.GetByID(ctx, *categoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: %v", ErrInvalidInput, ErrCategoryNotFound)
			}
			return err
		}
	}
	if unitID != nil {
		if _, err := s.categories.GetUnitByID(ctx, *unitID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: %v", ErrInvalidInput, ErrUnitNotFound)
			}
			return err
		}
	}
	return nil
}

func (s *catalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProducts(ctx); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.Error(err))
	}
}

func productCacheKey(filter repository.ProductFilter) string {
	category := "all"
	if filter.CategoryID != nil {
		category = fmt.Sprint(*filter.CategoryID)
	}
	return fmt.Sprintf("c=%s:a=%t:q=%s:l=%d:o=%d",
		category, filter.ActiveOnly, strings.ToLower(strings.TrimSpace(filter.Search)), filter.Limit, filter.Offset)
}
