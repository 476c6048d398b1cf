package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dvukovic/shopcore/internal/lifecycle/app/projections"
	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
)

type CancelItemCommand struct {
	OrderID string
	ItemID  string
}

func (c CancelItemCommand) Validate() error {
	if strings.TrimSpace(c.OrderID) == "" {
		return errors.New("order_id is required")
	}
	if strings.TrimSpace(c.ItemID) == "" {
		return errors.New("item_id is required")
	}
	return nil
}

// CancelItemCommandHandler cancels a single active item. The order's payment
// flips to Refunded with its refund step reset to the start of the pipeline.
type CancelItemCommandHandler struct {
	orders   ports.OrderRepository
	payments *projections.Projector
	events   ports.EventBus
}

func NewCancelItemCommandHandler(orders ports.OrderRepository, payments *projections.Projector, events ports.EventBus) *CancelItemCommandHandler {
	return &CancelItemCommandHandler{
		orders:   orders,
		payments: payments,
		events:   events,
	}
}

func (h *CancelItemCommandHandler) Handle(ctx context.Context, cmd CancelItemCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	order := findOrder(orders, cmd.OrderID)
	if order == nil {
		return nil, ports.ErrItemNotEligible
	}
	if _, ok := order.CancelItem(cmd.ItemID); !ok {
		return nil, ports.ErrItemNotEligible
	}

	if err := h.orders.SaveAll(ctx, orders); err != nil {
		return nil, err
	}

	if _, err := h.payments.MarkRefunded(ctx, *order, 0, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := h.events.PublishItemCancelled(ctx, cmd.OrderID, cmd.ItemID); err != nil {
		return order, fmt.Errorf("item cancelled but failed to publish event: %w", err)
	}

	return order, nil
}

func findOrder(orders []domain.Order, orderID string) *domain.Order {
	for idx := range orders {
		if orders[idx].ID == orderID {
			return &orders[idx]
		}
	}
	return nil
}
