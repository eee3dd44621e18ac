package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"grocery_store/internal/config"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes snapshots keyed by order reference.
type KafkaNotifier struct {
	writer MessageWriter
}

func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.OrderTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaNotifier(writer MessageWriter) *KafkaNotifier {
	return &KafkaNotifier{writer: writer}
}

func (n *KafkaNotifier) Notify(ctx context.Context, order OrderSnapshot) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order snapshot: %w", err)
	}
	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.Reference),
		Value: payload,
	})
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// DecodeSnapshot parses a message written by KafkaNotifier.
func DecodeSnapshot(msg kafka.Message) (OrderSnapshot, error) {
	var order OrderSnapshot
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		return OrderSnapshot{}, fmt.Errorf("failed to unmarshal order snapshot: %w", err)
	}
	return order, nil
}
