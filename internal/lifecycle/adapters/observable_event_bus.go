package adapters

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dvukovic/shopcore/internal/kafka"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
	"github.com/dvukovic/shopcore/internal/telemetry"
)

type ObservableEventBus struct {
	bus     ports.EventBus
	metrics *kafka.Metrics
}

func NewObservableEventBus(bus ports.EventBus, metrics *kafka.Metrics) *ObservableEventBus {
	return &ObservableEventBus{
		bus:     bus,
		metrics: metrics,
	}
}

func (e *ObservableEventBus) PublishOrderPlaced(ctx context.Context, orderID string) error {
	return e.publish(ctx, "order.placed", orderID, "", func(ctx context.Context) error {
		return e.bus.PublishOrderPlaced(ctx, orderID)
	})
}

func (e *ObservableEventBus) PublishItemCancelled(ctx context.Context, orderID, itemID string) error {
	return e.publish(ctx, "item.cancelled", orderID, itemID, func(ctx context.Context) error {
		return e.bus.PublishItemCancelled(ctx, orderID, itemID)
	})
}

func (e *ObservableEventBus) PublishItemReturned(ctx context.Context, orderID, itemID string) error {
	return e.publish(ctx, "item.returned", orderID, itemID, func(ctx context.Context) error {
		return e.bus.PublishItemReturned(ctx, orderID, itemID)
	})
}

func (e *ObservableEventBus) PublishRefundCompleted(ctx context.Context, orderID, itemID string) error {
	return e.publish(ctx, "refund.completed", orderID, itemID, func(ctx context.Context) error {
		return e.bus.PublishRefundCompleted(ctx, orderID, itemID)
	})
}

func (e *ObservableEventBus) publish(ctx context.Context, eventType, orderID, itemID string, fn func(ctx context.Context) error) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.Publish")
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.String("order.id", orderID),
		attribute.String("event.type", eventType),
	}
	if itemID != "" {
		attrs = append(attrs, attribute.String("item.id", itemID))
	}
	telemetry.AddSpanAttributes(span, attrs...)

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start).Seconds()

	e.metrics.RecordPublish(ctx, eventType, duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
