package ports

import "context"

// EventBus defines the contract for publishing lifecycle events.
type EventBus interface {
	PublishOrderPlaced(ctx context.Context, orderID string) error
	PublishItemCancelled(ctx context.Context, orderID, itemID string) error
	PublishItemReturned(ctx context.Context, orderID, itemID string) error
	PublishRefundCompleted(ctx context.Context, orderID, itemID string) error
}
