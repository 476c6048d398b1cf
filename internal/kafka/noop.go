package kafka

import (
	"context"
	"log/slog"
)

// NoopEventBus logs events without sending them to Kafka. Useful for local dev before wiring Kafka.
type NoopEventBus struct{}

// NewNoopEventBus returns a new no-op event publisher.
func NewNoopEventBus() *NoopEventBus {
	return &NoopEventBus{}
}

func (n *NoopEventBus) PublishOrderPlaced(_ context.Context, orderID string) error {
	slog.Debug("event::order_placed", "order_id", orderID)
	return nil
}

func (n *NoopEventBus) PublishItemCancelled(_ context.Context, orderID, itemID string) error {
	slog.Debug("event::item_cancelled", "order_id", orderID, "item_id", itemID)
	return nil
}

func (n *NoopEventBus) PublishItemReturned(_ context.Context, orderID, itemID string) error {
	slog.Debug("event::item_returned", "order_id", orderID, "item_id", itemID)
	return nil
}

func (n *NoopEventBus) PublishRefundCompleted(_ context.Context, orderID, itemID string) error {
	slog.Debug("event::refund_completed", "order_id", orderID, "item_id", itemID)
	return nil
}
