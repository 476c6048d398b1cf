package queries

import (
	"context"
	"fmt"

	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
)

// ListOrdersQuery retrieves orders, optionally narrowed to one status. An
// empty Status returns every order.
type ListOrdersQuery struct {
	Status domain.OrderStatus
}

// Validate ensures the status filter, when present, is a known status.
func (q ListOrdersQuery) Validate() error {
	switch q.Status {
	case "", domain.OrderActive, domain.OrderCompleted:
		return nil
	default:
		return fmt.Errorf("unknown order status %q", q.Status)
	}
}

type ListOrdersQueryHandler struct {
	orders ports.OrderRepository
}

func NewListOrdersQueryHandler(orders ports.OrderRepository) *ListOrdersQueryHandler {
	return &ListOrdersQueryHandler{orders: orders}
}

func (h *ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]domain.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	if query.Status == "" {
		return orders, nil
	}

	filtered := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == query.Status {
			filtered = append(filtered, order)
		}
	}
	return filtered, nil
}
