package repository

import (
	"context"
	"grocery_store/internal/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context, activeOnly bool) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	// Delete removes the category and clears it from every product, deleted
	// products included. Run it inside a unit of work.
	Delete(ctx context.Context, id uint) error
	CreateUnit(ctx context.Context, unit *models.UnitOfMeasure) error
	GetUnitByID(ctx context.Context, id uint) (*models.UnitOfMeasure, error)
	ListUnits(ctx context.Context) ([]models.UnitOfMeasure, error)
	UpdateUnit(ctx context.Context, unit *models.UnitOfMeasure) error
	DeleteUnit(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var categories []models.Category
	err := query.Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).Model(category).
		Select("name", "description", "is_active").
		Updates(category)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.detachAndDelete(ctx, "category_id", &models.Category{}, id)
}

func (r *categoryRepository) CreateUnit(ctx context.Context, unit *models.UnitOfMeasure) error {
	return translate(r.db.WithContext(ctx).Create(unit).Error)
}

func (r *categoryRepository) GetUnitByID(ctx context.Context, id uint) (*models.UnitOfMeasure, error) {
	var unit models.UnitOfMeasure
	if err := r.db.WithContext(ctx).First(&unit, id).Error; err != nil {
		return nil, translate(err)
	}
	return &unit, nil
}

func (r *categoryRepository) ListUnits(ctx context.Context) ([]models.UnitOfMeasure, error) {
	var units []models.UnitOfMeasure
	err := r.db.WithContext(ctx).Order("name ASC").Find(&units).Error
	return units, err
}

func (r *categoryRepository) UpdateUnit(ctx context.Context, unit *models.UnitOfMeasure) error {
	res := r.db.WithContext(ctx).Model(unit).
		Select("name", "abbreviation").
		Updates(unit)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepository) DeleteUnit(ctx context.Context, id uint) error {
	return r.detachAndDelete(ctx, "unit_of_measure_id", &models.UnitOfMeasure{}, id)
}

func (r *categoryRepository) detachAndDelete(ctx context.Context, column string, model interface{}, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Unscoped().Model(&models.Product{}).Where(column+" = ?", id).Update(column, nil).Error; err != nil {
		return err
	}
	res := db.Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
