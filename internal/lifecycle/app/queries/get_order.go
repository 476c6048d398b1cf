package queries

import (
	"context"
	"errors"
	"strings"

	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
)

// GetOrderQuery represents a request to retrieve an order by its ID.
type GetOrderQuery struct {
	OrderID string
}

// Validate ensures the query has valid parameters.
func (q GetOrderQuery) Validate() error {
	if strings.TrimSpace(q.OrderID) == "" {
		return errors.New("order_id is required")
	}
	return nil
}

// GetOrderQueryHandler executes GetOrderQuery and returns the order if found.
type GetOrderQueryHandler struct {
	orders ports.OrderRepository
}

// NewGetOrderQueryHandler constructs a GetOrderQueryHandler.
func NewGetOrderQueryHandler(orders ports.OrderRepository) *GetOrderQueryHandler {
	return &GetOrderQueryHandler{orders: orders}
}

// Handle executes the query and retrieves the order.
func (h *GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*domain.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	for idx := range orders {
		if orders[idx].ID == query.OrderID {
			return &orders[idx], nil
		}
	}
	return nil, ports.ErrNotFound
}
