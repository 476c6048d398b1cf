package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
)

// EventBus publishes lifecycle events to a single Kafka topic, keyed by
// order ID so events for one order stay in partition order.
type EventBus struct {
	writer *kafkaGo.Writer
}

// NewEventBus builds a publisher over the given brokers and topic.
func NewEventBus(brokers []string, topic string) *EventBus {
	return &EventBus{
		writer: &kafkaGo.Writer{
			Addr:     kafkaGo.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkaGo.LeastBytes{},
		},
	}
}

// Close flushes and releases the underlying writer.
func (b *EventBus) Close() error {
	return b.writer.Close()
}

type lifecycleEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	ItemID     string    `json:"item_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (b *EventBus) PublishOrderPlaced(ctx context.Context, orderID string) error {
	return b.publish(ctx, lifecycleEvent{Type: "order_placed", OrderID: orderID})
}

func (b *EventBus) PublishItemCancelled(ctx context.Context, orderID, itemID string) error {
	return b.publish(ctx, lifecycleEvent{Type: "item_cancelled", OrderID: orderID, ItemID: itemID})
}

func (b *EventBus) PublishItemReturned(ctx context.Context, orderID, itemID string) error {
	return b.publish(ctx, lifecycleEvent{Type: "item_returned", OrderID: orderID, ItemID: itemID})
}

func (b *EventBus) PublishRefundCompleted(ctx context.Context, orderID, itemID string) error {
	return b.publish(ctx, lifecycleEvent{Type: "refund_completed", OrderID: orderID, ItemID: itemID})
}

func (b *EventBus) publish(ctx context.Context, event lifecycleEvent) error {
	event.OccurredAt = time.Now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = b.writer.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}
