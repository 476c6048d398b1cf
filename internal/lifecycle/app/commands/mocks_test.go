package commands_test

import (
	"context"

	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
)

type mockOrderRepository struct {
	orders    []domain.Order
	loadErr   error
	saveErr   error
	saveCalls int
}

func (m *mockOrderRepository) LoadAll(ctx context.Context) ([]domain.Order, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.orders, nil
}

func (m *mockOrderRepository) SaveAll(ctx context.Context, orders []domain.Order) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.orders = orders
	return nil
}

type mockReturnRepository struct {
	entries   []domain.ReturnedItem
	loadErr   error
	saveErr   error
	saveCalls int
}

func (m *mockReturnRepository) LoadAll(ctx context.Context) ([]domain.ReturnedItem, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.entries, nil
}

func (m *mockReturnRepository) SaveAll(ctx context.Context, items []domain.ReturnedItem) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries = items
	return nil
}

type mockPaymentRepository struct {
	payments []domain.Payment
	loadErr  error
	saveErr  error
}

func (m *mockPaymentRepository) LoadAll(ctx context.Context) ([]domain.Payment, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.payments, nil
}

func (m *mockPaymentRepository) SaveAll(ctx context.Context, payments []domain.Payment) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.payments = payments
	return nil
}

type mockEventBus struct {
	orderPlacedFn      func(ctx context.Context, orderID string) error
	itemCancelledFn    func(ctx context.Context, orderID, itemID string) error
	itemReturnedFn     func(ctx context.Context, orderID, itemID string) error
	refundCompletedIDs []string
}

func (m *mockEventBus) PublishOrderPlaced(ctx context.Context, orderID string) error {
	if m.orderPlacedFn != nil {
		return m.orderPlacedFn(ctx, orderID)
	}
	return nil
}

func (m *mockEventBus) PublishItemCancelled(ctx context.Context, orderID, itemID string) error {
	if m.itemCancelledFn != nil {
		return m.itemCancelledFn(ctx, orderID, itemID)
	}
	return nil
}

func (m *mockEventBus) PublishItemReturned(ctx context.Context, orderID, itemID string) error {
	if m.itemReturnedFn != nil {
		return m.itemReturnedFn(ctx, orderID, itemID)
	}
	return nil
}

func (m *mockEventBus) PublishRefundCompleted(ctx context.Context, orderID, itemID string) error {
	m.refundCompletedIDs = append(m.refundCompletedIDs, orderID+"/"+itemID)
	return nil
}
