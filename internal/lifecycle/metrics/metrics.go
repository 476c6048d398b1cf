package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	ordersPlacedTotal      metric.Int64Counter
	orderPlacementDuration metric.Float64Histogram
	itemsCancelledTotal    metric.Int64Counter
	itemsReturnedTotal     metric.Int64Counter
	refundsCompletedTotal  metric.Int64Counter
	tickDuration           metric.Float64Histogram
	tickAdvancedTotal      metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.ordersPlacedTotal, err = meter.Int64Counter(
		"orders_placed_total",
		metric.WithDescription("Total number of orders placed"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_placed_total counter: %w", err)
	}

	m.orderPlacementDuration, err = meter.Float64Histogram(
		"order_placement_duration_seconds",
		metric.WithDescription("Duration of order placement operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_placement_duration histogram: %w", err)
	}

	m.itemsCancelledTotal, err = meter.Int64Counter(
		"order_items_cancelled_total",
		metric.WithDescription("Total number of order items cancelled"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_items_cancelled_total counter: %w", err)
	}

	m.itemsReturnedTotal, err = meter.Int64Counter(
		"order_items_returned_total",
		metric.WithDescription("Total number of order items returned"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_items_returned_total counter: %w", err)
	}

	m.refundsCompletedTotal, err = meter.Int64Counter(
		"refunds_completed_total",
		metric.WithDescription("Total number of refund pipelines completed"),
		metric.WithUnit("{refund}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create refunds_completed_total counter: %w", err)
	}

	m.tickDuration, err = meter.Float64Histogram(
		"lifecycle_tick_duration_seconds",
		metric.WithDescription("Duration of background lifecycle ticks"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create lifecycle_tick_duration histogram: %w", err)
	}

	m.tickAdvancedTotal, err = meter.Int64Counter(
		"lifecycle_tick_advanced_total",
		metric.WithDescription("Total number of records advanced by lifecycle ticks"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create lifecycle_tick_advanced_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordOrderPlaced(ctx context.Context, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.ordersPlacedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordOrderPlacementDuration(ctx context.Context, durationSeconds float64) {
	m.orderPlacementDuration.Record(ctx, durationSeconds)
}

func (m *Metrics) RecordItemCancelled(ctx context.Context) {
	m.itemsCancelledTotal.Add(ctx, 1)
}

func (m *Metrics) RecordItemReturned(ctx context.Context) {
	m.itemsReturnedTotal.Add(ctx, 1)
}

func (m *Metrics) RecordRefundCompleted(ctx context.Context) {
	m.refundsCompletedTotal.Add(ctx, 1)
}

func (m *Metrics) RecordTick(ctx context.Context, task string, durationSeconds float64, advanced int) {
	m.tickDuration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("task", task),
	))
	if advanced > 0 {
		m.tickAdvancedTotal.Add(ctx, int64(advanced), metric.WithAttributes(
			attribute.String("task", task),
		))
	}
}
