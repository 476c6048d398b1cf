package kv

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dvukovic/shopcore/internal/telemetry"
)

// ObservableStore decorates a Store with spans and operation metrics.
type ObservableStore struct {
	store   Store
	metrics *Metrics
}

func NewObservableStore(store Store, metrics *Metrics) *ObservableStore {
	return &ObservableStore{store: store, metrics: metrics}
}

func (s *ObservableStore) Load(ctx context.Context, collection string) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "RecordStore.Load")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("collection", collection),
		attribute.String("operation", "load"),
	)

	start := time.Now()
	data, err := s.store.Load(ctx, collection)
	s.metrics.RecordOp(ctx, "load", collection, time.Since(start).Seconds())

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.bytes", len(data)))
	telemetry.SetSpanSuccess(span)
	return data, nil
}

func (s *ObservableStore) Save(ctx context.Context, collection string, data []byte) error {
	ctx, span := telemetry.StartSpan(ctx, "RecordStore.Save")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("collection", collection),
		attribute.String("operation", "save"),
		attribute.Int("payload.bytes", len(data)),
	)

	start := time.Now()
	err := s.store.Save(ctx, collection, data)
	s.metrics.RecordOp(ctx, "save", collection, time.Since(start).Seconds())

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (s *ObservableStore) Delete(ctx context.Context, collection string) error {
	ctx, span := telemetry.StartSpan(ctx, "RecordStore.Delete")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("collection", collection),
		attribute.String("operation", "delete"),
	)

	start := time.Now()
	err := s.store.Delete(ctx, collection)
	s.metrics.RecordOp(ctx, "delete", collection, time.Since(start).Seconds())

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
