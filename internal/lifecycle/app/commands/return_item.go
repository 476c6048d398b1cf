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

type ReturnItemCommand struct {
	OrderID string
	ItemID  string
}

func (c ReturnItemCommand) Validate() error {
	if strings.TrimSpace(c.OrderID) == "" {
		return errors.New("order_id is required")
	}
	if strings.TrimSpace(c.ItemID) == "" {
		return errors.New("item_id is required")
	}
	return nil
}

// ReturnItemCommandHandler marks an active item returned and opens a
// returns-ledger entry that the refund tick then advances. The payment flips
// to Refunded exactly as for a cancel.
type ReturnItemCommandHandler struct {
	orders   ports.OrderRepository
	returns  ports.ReturnRepository
	payments *projections.Projector
	events   ports.EventBus
}

func NewReturnItemCommandHandler(
	orders ports.OrderRepository,
	returns ports.ReturnRepository,
	payments *projections.Projector,
	events ports.EventBus,
) *ReturnItemCommandHandler {
	return &ReturnItemCommandHandler{
		orders:   orders,
		returns:  returns,
		payments: payments,
		events:   events,
	}
}

func (h *ReturnItemCommandHandler) Handle(ctx context.Context, cmd ReturnItemCommand) (*domain.Order, error) {
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
	item, ok := order.ReturnItem(cmd.ItemID)
	if !ok {
		return nil, ports.ErrItemNotEligible
	}

	if err := h.orders.SaveAll(ctx, orders); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	entries, err := h.returns.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	entries = append(entries, domain.NewReturnedItem(cmd.OrderID, item, now))
	if err := h.returns.SaveAll(ctx, entries); err != nil {
		return nil, err
	}

	if _, err := h.payments.MarkRefunded(ctx, *order, 0, now); err != nil {
		return nil, err
	}

	if err := h.events.PublishItemReturned(ctx, cmd.OrderID, cmd.ItemID); err != nil {
		return order, fmt.Errorf("item returned but failed to publish event: %w", err)
	}

	return order, nil
}
