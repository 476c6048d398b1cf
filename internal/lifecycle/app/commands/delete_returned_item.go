package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
)

type DeleteReturnedItemCommand struct {
	OrderID string
	ItemID  string
}

func (c DeleteReturnedItemCommand) Validate() error {
	if strings.TrimSpace(c.OrderID) == "" {
		return errors.New("order_id is required")
	}
	if strings.TrimSpace(c.ItemID) == "" {
		return errors.New("item_id is required")
	}
	return nil
}

// DeleteReturnedItemCommandHandler removes ledger entries for one order item.
// It touches nothing else: the order keeps its returned item and the payment
// keeps whatever refund progress it already recorded.
type DeleteReturnedItemCommandHandler struct {
	returns ports.ReturnRepository
}

func NewDeleteReturnedItemCommandHandler(returns ports.ReturnRepository) *DeleteReturnedItemCommandHandler {
	return &DeleteReturnedItemCommandHandler{returns: returns}
}

func (h *DeleteReturnedItemCommandHandler) Handle(ctx context.Context, cmd DeleteReturnedItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	entries, err := h.returns.LoadAll(ctx)
	if err != nil {
		return err
	}

	kept := make([]domain.ReturnedItem, 0, len(entries))
	for _, entry := range entries {
		if entry.OrderID == cmd.OrderID && entry.ItemID == cmd.ItemID {
			continue
		}
		kept = append(kept, entry)
	}

	if len(kept) == len(entries) {
		return ports.ErrNotFound
	}

	return h.returns.SaveAll(ctx, kept)
}
