package notification

import (
	"grocery_store/internal/config"

	"go.uber.org/zap"
)

// FromConfig picks the notifier for NOTIFY_TRANSPORT. The returned close
// function releases transport resources and is never nil.
func FromConfig(cfg *config.Config, logger *zap.Logger) (Notifier, func() error) {
	noop := func() error { return nil }

	switch cfg.Notification.Transport {
	case "kafka":
		if len(cfg.Kafka.Brokers) > 0 {
			n := NewKafkaNotifier(NewKafkaWriter(cfg.Kafka))
			return n, n.Close
		}
		logger.Warn("kafka transport selected without brokers, logging notifications instead")
	case "email":
		if cfg.SMTP.Configured() {
			return NewEmailNotifier(cfg.SMTP), noop
		}
		logger.Warn("SMTP credentials missing, logging notifications instead")
	case "log":
	default:
		logger.Warn("unknown notification transport", zap.String("transport", cfg.Notification.Transport))
	}
	return NewLogNotifier(logger), noop
}
