package main

import (
	"context"
	"errors"
	"grocery_store/internal/config"
	"grocery_store/internal/database"
	"grocery_store/internal/handlers"
	"grocery_store/internal/logging"
	"grocery_store/internal/migrations"
	"grocery_store/internal/notification"
	"grocery_store/internal/redis"
	"grocery_store/internal/repository"
	"grocery_store/internal/services"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, !cfg.IsProduction(), logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := migrations.RunMigrations(ctx, db, cfg, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL, time.Duration(cfg.CacheTTL)*time.Second)
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Notifications
	notifier, closeNotifier := notification.FromConfig(cfg, logger)
	defer closeNotifier()
	dispatcher := notification.NewDispatcher(notifier, cfg.Notification.Workers, cfg.Notification.QueueSize, cfg.Notification.Timeout, logger)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	uow := repository.NewUnitOfWork(db)

	// Initialize services
	userService := services.NewUserService(userRepo, redisClient, time.Duration(cfg.SessionTimeout)*time.Second, logger)
	catalogService := services.NewCatalogService(productRepo, categoryRepo, uow, redisClient, logger)
	inventoryService := services.NewInventoryService(productRepo, ledgerRepo, uow, logger)
	checkoutService := services.NewCheckoutService(productRepo, uow, cfg.Checkout, logger)
	orderService := services.NewOrderService(orderRepo, productRepo, uow, logger)

	// Setup routes
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logging.GinMiddleware(logger))

	handlers.RegisterRoutes(router, handlers.Handlers{
		Auth:    handlers.NewAuthMiddleware(userService),
		Users:   handlers.NewAuthHandler(userService),
		Catalog: handlers.NewCatalogHandler(catalogService),
		Orders:  handlers.NewOrderHandler(checkoutService, orderService, dispatcher),
		Admin:   handlers.NewAdminHandler(orderService, catalogService, inventoryService),
		Health: func(c *gin.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.PingContext(c.Request.Context()); err != nil {
				return err
			}
			return redisClient.Ping(c.Request.Context())
		},
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn("pending notifications abandoned", zap.Error(err))
	}
}
