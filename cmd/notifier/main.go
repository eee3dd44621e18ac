package main

import (
	"context"
	"grocery_store/internal/config"
	"grocery_store/internal/logging"
	"grocery_store/internal/notification"
	"log"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// notifier consumes order snapshots published by the server and emails them
// to the store admin, and to the customer for payment-started events.
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sender notification.Notifier = notification.NewLogNotifier(logger)
	if cfg.SMTP.Configured() {
		sender = notification.NewEmailNotifier(cfg.SMTP)
	} else {
		logger.Warn("SMTP credentials missing, logging notifications instead")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.OrderTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer reader.Close()

	logger.Info("order notifier started",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.OrderTopic),
	)

	notification.NewConsumer(reader, sender, cfg.Notification.Timeout, logger).Run(ctx)
	logger.Info("order notifier stopped")
}
