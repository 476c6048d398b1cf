package commands

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
	"github.com/dvukovic/shopcore/internal/lifecycle/metrics"
	"github.com/dvukovic/shopcore/internal/telemetry"
)

type ObservablePlaceOrderHandler struct {
	handler PlaceOrderHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservablePlaceOrderHandler(handler PlaceOrderHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservablePlaceOrderHandler {
	return &ObservablePlaceOrderHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservablePlaceOrderHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "PlaceOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordOrderPlacementDuration(ctx, duration)
		o.metrics.RecordOrderPlaced(ctx, success)
	}()

	o.logger.InfoContext(ctx, "placing order",
		"item_count", len(cmd.Items),
		"payment_method", cmd.PaymentMethod,
	)

	order, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to place order",
			"error", err,
			"item_count", len(cmd.Items),
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.Int("order.item_count", len(order.Items)),
		attribute.Int64("order.amount_cents", order.TotalCents()),
	)

	o.logger.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"amount_cents", order.TotalCents(),
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return order, nil
}
