package database

import (
	"fmt"
	"grocery_store/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string, verbose bool, log *zap.Logger) (*gorm.DB, error) {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}

	// TranslateError turns unique violations into gorm.ErrDuplicatedKey.
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("database connected and migrated")
	return db, nil
}

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.UnitOfMeasure{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.InventoryLedger{},
	)
}
