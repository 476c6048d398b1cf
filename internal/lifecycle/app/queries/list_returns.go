package queries

import (
	"context"

	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
)

// ListReturnsQueryHandler returns the full returned-items ledger.
type ListReturnsQueryHandler struct {
	returns ports.ReturnRepository
}

func NewListReturnsQueryHandler(returns ports.ReturnRepository) *ListReturnsQueryHandler {
	return &ListReturnsQueryHandler{returns: returns}
}

func (h *ListReturnsQueryHandler) Handle(ctx context.Context) ([]domain.ReturnedItem, error) {
	return h.returns.LoadAll(ctx)
}
