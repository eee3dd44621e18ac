package notification

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	defaultMinBackoff = 500 * time.Millisecond
	defaultMaxBackoff = 30 * time.Second
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Consumer hands snapshots published by KafkaNotifier to another Notifier.
type Consumer struct {
	reader     MessageReader
	notifier   Notifier
	timeout    time.Duration
	minBackoff time.Duration
	maxBackoff time.Duration
	logger     *zap.Logger
}

func NewConsumer(reader MessageReader, notifier Notifier, timeout time.Duration, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader:     reader,
		notifier:   notifier,
		timeout:    timeout,
		minBackoff: defaultMinBackoff,
		maxBackoff: defaultMaxBackoff,
		logger:     logger,
	}
}

// Run consumes until ctx ends. Fetch errors are retried with exponential
// backoff; malformed and undeliverable messages are committed and skipped.
func (c *Consumer) Run(ctx context.Context) {
	backoff := c.minBackoff
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			c.logger.Error("failed to fetch message", zap.Error(err), zap.Duration("retry_in", backoff))
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > c.maxBackoff {
				backoff = c.maxBackoff
			}
			continue
		}
		backoff = c.minBackoff

		c.deliver(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("failed to commit offset", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func (c *Consumer) deliver(ctx context.Context, msg kafka.Message) {
	order, err := DecodeSnapshot(msg)
	if err != nil {
		c.logger.Error("skipping malformed message", zap.Int64("offset", msg.Offset), zap.Error(err))
		return
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if err := c.notifier.Notify(ctx, order); err != nil {
		c.logger.Error("order notification failed", zap.String("reference", order.Reference), zap.Error(err))
		return
	}
	c.logger.Info("order notification sent", zap.String("event", order.Event), zap.String("reference", order.Reference))
}
