package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/dvukovic/shopcore/internal/lifecycle/app/projections"
	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
)

// AdvanceRefundHandler implements the refund tick: every ledger entry short
// of the final stage moves one refund stage forward. An entry reaching the
// final stage for the first time credits its order's payment.
type AdvanceRefundHandler struct {
	orders   ports.OrderRepository
	returns  ports.ReturnRepository
	payments *projections.Projector
	events   ports.EventBus
	logger   *slog.Logger
}

func NewAdvanceRefundHandler(
	orders ports.OrderRepository,
	returns ports.ReturnRepository,
	payments *projections.Projector,
	events ports.EventBus,
	logger *slog.Logger,
) *AdvanceRefundHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdvanceRefundHandler{
		orders:   orders,
		returns:  returns,
		payments: payments,
		events:   events,
		logger:   logger,
	}
}

// Handle runs one tick and returns how many entries advanced and how many
// completed the pipeline on this tick.
func (h *AdvanceRefundHandler) Handle(ctx context.Context) (advanced, completed int, err error) {
	entries, err := h.returns.LoadAll(ctx)
	if err != nil {
		return 0, 0, err
	}

	var credited []domain.ReturnedItem
	for idx := range entries {
		changed, done := entries[idx].AdvanceRefund()
		if changed {
			advanced++
		}
		if done {
			credited = append(credited, entries[idx])
		}
	}

	if advanced == 0 {
		return 0, 0, nil
	}

	if err := h.returns.SaveAll(ctx, entries); err != nil {
		return 0, 0, err
	}

	if len(credited) == 0 {
		return advanced, 0, nil
	}

	orders, err := h.orders.LoadAll(ctx)
	if err != nil {
		return advanced, 0, err
	}

	now := time.Now().UTC()
	for _, entry := range credited {
		order := findOrder(orders, entry.OrderID)
		if order == nil {
			// The source order is gone; credit against a ledger-derived stub
			// so the payment still reaches its terminal state.
			order = &domain.Order{
				ID: entry.OrderID,
				Items: []domain.OrderItem{{
					ID:         entry.ItemID,
					Name:       entry.Name,
					PriceCents: entry.PriceCents,
					Quantity:   entry.Quantity,
					Status:     domain.ItemReturned,
				}},
				Status: domain.OrderCompleted,
			}
		}

		if _, err := h.payments.MarkRefunded(ctx, *order, domain.LastRefundStep, now); err != nil {
			return advanced, completed, err
		}
		completed++

		if err := h.events.PublishRefundCompleted(ctx, entry.OrderID, entry.ItemID); err != nil {
			h.logger.WarnContext(ctx, "refund completed but event publish failed",
				"order_id", entry.OrderID,
				"item_id", entry.ItemID,
				"error", err,
			)
		}
	}

	return advanced, completed, nil
}
