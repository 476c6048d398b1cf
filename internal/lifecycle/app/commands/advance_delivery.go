package commands

import (
	"context"

	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
)

// AdvanceDeliveryHandler implements the delivery tick: every active item of
// every active order moves one delivery stage forward, capped at the final
// absorbing stage. This is the only automatic mutator of tracking steps.
type AdvanceDeliveryHandler struct {
	orders ports.OrderRepository
}

func NewAdvanceDeliveryHandler(orders ports.OrderRepository) *AdvanceDeliveryHandler {
	return &AdvanceDeliveryHandler{orders: orders}
}

// Handle runs one tick and returns the number of orders that changed. The
// collection is only written back when something moved.
func (h *AdvanceDeliveryHandler) Handle(ctx context.Context) (int, error) {
	orders, err := h.orders.LoadAll(ctx)
	if err != nil {
		return 0, err
	}

	advanced := 0
	for idx := range orders {
		if orders[idx].AdvanceDelivery() {
			advanced++
		}
	}

	if advanced == 0 {
		return 0, nil
	}

	if err := h.orders.SaveAll(ctx, orders); err != nil {
		return 0, err
	}
	return advanced, nil
}
