package queries

import (
	"context"

	"github.com/dvukovic/shopcore/internal/lifecycle/app/projections"
	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
)

// ListPaymentsQueryHandler returns the payments collection. Listing is where
// payments materialize: the handler reconciles the collection against the
// orders and the returns ledger before returning it, so an order placed but
// never otherwise touched gains its payment here.
type ListPaymentsQueryHandler struct {
	orders   ports.OrderRepository
	returns  ports.ReturnRepository
	payments *projections.Projector
}

func NewListPaymentsQueryHandler(
	orders ports.OrderRepository,
	returns ports.ReturnRepository,
	payments *projections.Projector,
) *ListPaymentsQueryHandler {
	return &ListPaymentsQueryHandler{
		orders:   orders,
		returns:  returns,
		payments: payments,
	}
}

func (h *ListPaymentsQueryHandler) Handle(ctx context.Context) ([]domain.Payment, error) {
	orders, err := h.orders.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	returns, err := h.returns.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return h.payments.Sync(ctx, orders, returns)
}
