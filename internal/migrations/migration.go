package migrations

import (
	"context"
	"grocery_store/internal/config"
	"grocery_store/internal/database"
	"grocery_store/internal/models"
	"grocery_store/internal/repository"
	"grocery_store/internal/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var defaultUnits = []models.UnitOfMeasure{
	{Name: "Piece", Abbreviation: "pc"},
	{Name: "Kilogram", Abbreviation: "kg"},
	{Name: "Gram", Abbreviation: "g"},
	{Name: "Litre", Abbreviation: "L"},
	{Name: "Pack", Abbreviation: "pack"},
}

var defaultCategories = []models.Category{
	{Name: "Grains & Cereals", Description: "Rice, millet, flour and pasta", IsActive: true},
	{Name: "Oils & Condiments", Description: "Cooking oil, spices and sauces", IsActive: true},
	{Name: "Beverages", Description: "Water, juice, tea and coffee", IsActive: true},
	{Name: "Dairy", Description: "Milk, yoghurt and cheese", IsActive: true},
	{Name: "Household", Description: "Cleaning and everyday supplies", IsActive: true},
}

// RunMigrations migrates the schema and creates default data. It is safe to
// run on every start.
func RunMigrations(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("running database migrations")

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	if err := createDefaultData(ctx, db, cfg, logger); err != nil {
		logger.Warn("failed to create default data", zap.Error(err))
	}

	logger.Info("database migrations completed")
	return nil
}

// ResetSchema drops every table. Used by scripts/init-db.go only.
func ResetSchema(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&models.InventoryLedger{},
		&models.OrderItem{},
		&models.Order{},
		&models.Product{},
		&models.UnitOfMeasure{},
		&models.Category{},
		&models.User{},
	)
}

func createDefaultData(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger) error {
	tx := db.WithContext(ctx)
	for _, unit := range defaultUnits {
		unit := unit
		if err := tx.Where(models.UnitOfMeasure{Name: unit.Name}).FirstOrCreate(&unit).Error; err != nil {
			return err
		}
	}
	for _, category := range defaultCategories {
		category := category
		if err := tx.Where(models.Category{Name: category.Name}).FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}

	if cfg.AdminBootstrapPassword == "" {
		logger.Info("ADMIN_BOOTSTRAP_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	// Sessions are never created here.
	userService := services.NewUserService(repository.NewUserRepository(db), nil, 0, logger)
	_, err := userService.EnsureAdmin(ctx, cfg.AdminBootstrapEmail, cfg.AdminBootstrapPassword)
	return err
}
