package kv

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics instruments record-store operations.
type Metrics struct {
	opDuration metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.opDuration, err = meter.Float64Histogram(
		"record_store_op_duration_seconds",
		metric.WithDescription("Record store operation duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create record_store_op_duration histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordOp(ctx context.Context, operation, collection string, durationSeconds float64) {
	m.opDuration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("collection", collection),
	))
}
