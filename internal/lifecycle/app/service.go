package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dvukovic/shopcore/internal/lifecycle/app/commands"
	"github.com/dvukovic/shopcore/internal/lifecycle/app/projections"
	"github.com/dvukovic/shopcore/internal/lifecycle/app/queries"
	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
	"github.com/dvukovic/shopcore/internal/lifecycle/metrics"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
)

// Service bundles the lifecycle use cases behind a single writer. Every
// handler works read-modify-write against whole collections, so the service
// serializes all mutating paths with one mutex; concurrent API calls and
// background ticks can never interleave between a load and its save.
type Service struct {
	mu sync.Mutex

	idemStore ports.IdempotencyStore
	metrics   *metrics.Metrics

	placeOrder         commands.PlaceOrderHandler
	cancelItem         *commands.CancelItemCommandHandler
	returnItem         *commands.ReturnItemCommandHandler
	deleteReturnedItem *commands.DeleteReturnedItemCommandHandler
	advanceDelivery    *commands.AdvanceDeliveryHandler
	advanceRefund      *commands.AdvanceRefundHandler

	getOrder     *queries.GetOrderQueryHandler
	listOrders   *queries.ListOrdersQueryHandler
	listReturns  *queries.ListReturnsQueryHandler
	listPayments *queries.ListPaymentsQueryHandler
}

// NewService wires required dependencies.
func NewService(
	orders ports.OrderRepository,
	returns ports.ReturnRepository,
	payments ports.PaymentRepository,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	projector := projections.NewProjector(payments)

	placeOrderCore := commands.NewPlaceOrderCommandHandler(orders, events)

	return &Service{
		idemStore:          idem,
		metrics:            m,
		placeOrder:         commands.NewObservablePlaceOrderHandler(placeOrderCore, logger, m),
		cancelItem:         commands.NewCancelItemCommandHandler(orders, projector, events),
		returnItem:         commands.NewReturnItemCommandHandler(orders, returns, projector, events),
		deleteReturnedItem: commands.NewDeleteReturnedItemCommandHandler(returns),
		advanceDelivery:    commands.NewAdvanceDeliveryHandler(orders),
		advanceRefund:      commands.NewAdvanceRefundHandler(orders, returns, projector, events, logger),
		getOrder:           queries.NewGetOrderQueryHandler(orders),
		listOrders:         queries.NewListOrdersQueryHandler(orders),
		listReturns:        queries.NewListReturnsQueryHandler(returns),
		listPayments:       queries.NewListPaymentsQueryHandler(orders, returns, projector),
	}
}

// PlaceOrder orchestrates order placement and event emission.
func (s *Service) PlaceOrder(ctx context.Context, cmd commands.PlaceOrderCommand) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeOrder.Handle(ctx, cmd)
}

// CancelItem cancels a single order item and flips the order's payment.
func (s *Service) CancelItem(ctx context.Context, orderID, itemID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, err := s.cancelItem.Handle(ctx, commands.CancelItemCommand{OrderID: orderID, ItemID: itemID})
	if err == nil {
		s.metrics.RecordItemCancelled(ctx)
	}
	return order, err
}

// ReturnItem marks an item returned and opens its refund ledger entry.
func (s *Service) ReturnItem(ctx context.Context, orderID, itemID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, err := s.returnItem.Handle(ctx, commands.ReturnItemCommand{OrderID: orderID, ItemID: itemID})
	if err == nil {
		s.metrics.RecordItemReturned(ctx)
	}
	return order, err
}

// DeleteReturnedItem removes an entry from the returns ledger.
func (s *Service) DeleteReturnedItem(ctx context.Context, orderID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteReturnedItem.Handle(ctx, commands.DeleteReturnedItemCommand{OrderID: orderID, ItemID: itemID})
}

// AdvanceDeliveryTick runs one delivery tick.
func (s *Service) AdvanceDeliveryTick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	advanced, err := s.advanceDelivery.Handle(ctx)
	s.metrics.RecordTick(ctx, "delivery", time.Since(start).Seconds(), advanced)
	return err
}

// AdvanceRefundTick runs one refund tick.
func (s *Service) AdvanceRefundTick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	advanced, completed, err := s.advanceRefund.Handle(ctx)
	s.metrics.RecordTick(ctx, "refund", time.Since(start).Seconds(), advanced)
	for i := 0; i < completed; i++ {
		s.metrics.RecordRefundCompleted(ctx)
	}
	return err
}

// GetOrder retrieves an order by ID.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.getOrder.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

// ListOrders returns orders, optionally filtered by status.
func (s *Service) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return s.listOrders.Handle(ctx, queries.ListOrdersQuery{Status: status})
}

// ListReturns returns the returned-items ledger.
func (s *Service) ListReturns(ctx context.Context) ([]domain.ReturnedItem, error) {
	return s.listReturns.Handle(ctx)
}

// ListPayments returns the payments collection, materializing missing
// payments first. Listing mutates, so it takes the writer lock.
func (s *Service) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listPayments.Handle(ctx)
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
