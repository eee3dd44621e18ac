package main

import (
	"context"
	"flag"
	"fmt"
	"grocery_store/internal/config"
	"grocery_store/internal/database"
	"grocery_store/internal/logging"
	"grocery_store/internal/migrations"
	"grocery_store/internal/repository"
	"grocery_store/internal/services"
	"log"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type demoProduct struct {
	name, description, price string
	stock                    int
	category, unit           string
}

var demoProducts = []demoProduct{
	{"Brisure de riz 5kg", "Broken rice, 5kg bag", "4500", 40, "Grains & Cereals", "Pack"},
	{"Mil souna 1kg", "Local millet", "900", 60, "Grains & Cereals", "Kilogram"},
	{"Huile d'arachide 1L", "Peanut oil", "1800", 25, "Oils & Condiments", "Litre"},
	{"Lait en poudre 400g", "Powdered milk", "2300", 8, "Dairy", "Pack"},
	{"Eau minerale 1.5L", "Still mineral water", "400", 120, "Beverages", "Piece"},
}

func main() {
	reset := flag.Bool("reset", false, "drop all tables before migrating")
	demo := flag.Bool("demo", false, "insert demo products")
	flag.Parse()

	fmt.Println("Initializing database...")

	cfg := config.Load()
	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	db, err := database.Initialize(cfg.DatabaseURL, false, logger)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if *reset {
		fmt.Println("Dropping existing tables...")
		if err := migrations.ResetSchema(db); err != nil {
			log.Printf("Warning: Error dropping tables: %v", err)
		}
	}

	ctx := context.Background()
	if err := migrations.RunMigrations(ctx, db, cfg, logger); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if *demo {
		fmt.Println("Creating demo products...")
		if err := createDemoProducts(ctx, logger, repository.NewCategoryRepository(db), services.NewCatalogService(
			repository.NewProductRepository(db),
			repository.NewCategoryRepository(db),
			repository.NewUnitOfWork(db),
			nil,
			logger,
		)); err != nil {
			log.Printf("Warning: Failed to create demo products: %v", err)
		}
	}

	fmt.Println("Database initialization completed successfully!")
}

func createDemoProducts(ctx context.Context, logger *zap.Logger, categories repository.CategoryRepository, catalog services.CatalogService) error {
	units, err := categories.ListUnits(ctx)
	if err != nil {
		return err
	}
	unitIDs := make(map[string]uint, len(units))
	for _, u := range units {
		unitIDs[u.Name] = u.ID
	}

	existing, err := catalog.ListProducts(ctx, repository.ProductFilter{})
	if err != nil {
		return err
	}
	names := make(map[string]bool, len(existing))
	for _, p := range existing {
		names[p.Name] = true
	}

	for _, d := range demoProducts {
		if names[d.name] {
			continue
		}
		input := services.ProductInput{
			Name:          d.name,
			Description:   d.description,
			Price:         decimal.RequireFromString(d.price),
			StockQuantity: d.stock,
		}
		if category, err := categories.GetByName(ctx, d.category); err == nil {
			input.CategoryID = &category.ID
		}
		if id, ok := unitIDs[d.unit]; ok {
			unitID := id
			input.UnitOfMeasureID = &unitID
		}

		product, err := catalog.CreateProduct(ctx, input, nil)
		if err != nil {
			return fmt.Errorf("create %s: %w", d.name, err)
		}
		logger.Info("demo product created",
			zap.String("name", product.Name),
			zap.String("price", product.Price.StringFixed(2)),
			zap.Int("stock", product.StockQuantity),
		)
	}
	return nil
}
