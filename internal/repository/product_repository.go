package repository

import (
	"context"
	"grocery_store/internal/models"
	"strings"

	"gorm.io/gorm"
)

type ProductFilter struct {
	CategoryID *uint
	ActiveOnly bool
	Search     string
	Limit      int
	Offset     int
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
	LowStock(ctx context.Context) ([]models.Product, error)
	// AdjustStock applies delta in a single guarded statement and returns the
	// resulting quantity. It fails with ErrStockUnavailable when the result
	// would be negative and ErrNotFound when the product is gone.
	AdjustStock(ctx context.Context, id uint, delta int) (int, error)
	DecrementStock(ctx context.Context, id uint, quantity int) (int, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Category").Preload("UnitOfMeasure").First(&product, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Preload("Category").Preload("UnitOfMeasure").Order("name ASC, id ASC")
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []models.Product
	err := query.Find(&products).Error
	return products, err
}

// Update saves the editable catalog fields. Stock moves only through AdjustStock.
func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(product).
		Select("name", "description", "price", "image_url", "low_stock_threshold", "is_active", "category_id", "unit_of_measure_id", "updated_at").
		Updates(product)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete is a soft delete; order items and ledger rows keep pointing at the row.
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) LowStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND stock_quantity <= low_stock_threshold", true).
		Order("stock_quantity ASC, id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) DecrementStock(ctx context.Context, id uint, quantity int) (int, error) {
	return r.AdjustStock(ctx, id, -quantity)
}

func (r *productRepository) AdjustStock(ctx context.Context, id uint, delta int) (int, error) {
	db := r.db.WithContext(ctx)

	res := db.Model(&models.Product{}).
		Where("id = ? AND stock_quantity + ? >= 0", id, delta).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, ErrNotFound
		}
		return 0, ErrStockUnavailable
	}

	var quantity int
	if err := db.Model(&models.Product{}).Select("stock_quantity").Where("id = ?", id).Row().Scan(&quantity); err != nil {
		return 0, err
	}
	return quantity, nil
}
