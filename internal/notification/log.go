package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes the alert to the log. Used when no transport is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, order OrderSnapshot) error {
	n.logger.Info("order notification",
		zap.String("event", order.Event),
		zap.String("reference", order.Reference),
		zap.String("customer_email", order.CustomerEmail),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.Int("items", len(order.Items)),
	)
	return nil
}
