package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dvukovic/shopcore/internal/lifecycle/app/commands"
	"github.com/dvukovic/shopcore/internal/lifecycle/app/projections"
	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
)

func TestReturnItem(t *testing.T) {
	t.Run("marks the item returned and opens a ledger entry", func(t *testing.T) {
		repo := &mockOrderRepository{orders: []domain.Order{activeOrder("order-1", "item-1", "item-2")}}
		returns := &mockReturnRepository{}
		payments := &mockPaymentRepository{}
		handler := commands.NewReturnItemCommandHandler(repo, returns, projections.NewProjector(payments), &mockEventBus{})

		order, err := handler.Handle(context.Background(), commands.ReturnItemCommand{OrderID: "order-1", ItemID: "item-1"})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		if got := order.Items[0].Status; got != domain.ItemReturned {
			t.Errorf("expected item status %s, got %s", domain.ItemReturned, got)
		}

		if len(returns.entries) != 1 {
			t.Fatalf("expected 1 ledger entry, got %d", len(returns.entries))
		}
		entry := returns.entries[0]
		if entry.OrderID != "order-1" || entry.ItemID != "item-1" {
			t.Errorf("unexpected ledger key: %s/%s", entry.OrderID, entry.ItemID)
		}
		if entry.RefundStep != 0 {
			t.Errorf("expected refund step 0, got %d", entry.RefundStep)
		}
		if entry.ReturnDate.IsZero() {
			t.Error("expected return date to be set")
		}
		if entry.PriceCents != 22400000 {
			t.Errorf("expected ledger to copy the item price, got %d", entry.PriceCents)
		}

		if len(payments.payments) != 1 {
			t.Fatalf("expected 1 payment, got %d", len(payments.payments))
		}
		if got := payments.payments[0].Status; got != domain.PaymentRefunded {
			t.Errorf("expected payment status %s, got %s", domain.PaymentRefunded, got)
		}
	})

	t.Run("allows each item of an order its own ledger entry", func(t *testing.T) {
		repo := &mockOrderRepository{orders: []domain.Order{activeOrder("order-1", "item-1", "item-2")}}
		returns := &mockReturnRepository{}
		handler := commands.NewReturnItemCommandHandler(repo, returns, projections.NewProjector(&mockPaymentRepository{}), &mockEventBus{})

		ctx := context.Background()
		if _, err := handler.Handle(ctx, commands.ReturnItemCommand{OrderID: "order-1", ItemID: "item-1"}); err != nil {
			t.Fatalf("first return failed: %v", err)
		}
		if _, err := handler.Handle(ctx, commands.ReturnItemCommand{OrderID: "order-1", ItemID: "item-2"}); err != nil {
			t.Fatalf("second return failed: %v", err)
		}

		if len(returns.entries) != 2 {
			t.Fatalf("expected 2 ledger entries, got %d", len(returns.entries))
		}
	})

	t.Run("returning the same item twice is not eligible", func(t *testing.T) {
		repo := &mockOrderRepository{orders: []domain.Order{activeOrder("order-1", "item-1")}}
		returns := &mockReturnRepository{}
		handler := commands.NewReturnItemCommandHandler(repo, returns, projections.NewProjector(&mockPaymentRepository{}), &mockEventBus{})

		ctx := context.Background()
		if _, err := handler.Handle(ctx, commands.ReturnItemCommand{OrderID: "order-1", ItemID: "item-1"}); err != nil {
			t.Fatalf("first return failed: %v", err)
		}

		_, err := handler.Handle(ctx, commands.ReturnItemCommand{OrderID: "order-1", ItemID: "item-1"})
		if !errors.Is(err, ports.ErrItemNotEligible) {
			t.Fatalf("expected ErrItemNotEligible, got: %v", err)
		}
		if len(returns.entries) != 1 {
			t.Errorf("expected ledger to keep a single entry, got %d", len(returns.entries))
		}
	})

	t.Run("cancelled items cannot be returned", func(t *testing.T) {
		order := activeOrder("order-1", "item-1")
		order.Items[0].Status = domain.ItemCancelled
		repo := &mockOrderRepository{orders: []domain.Order{order}}
		returns := &mockReturnRepository{}
		handler := commands.NewReturnItemCommandHandler(repo, returns, projections.NewProjector(&mockPaymentRepository{}), &mockEventBus{})

		_, err := handler.Handle(context.Background(), commands.ReturnItemCommand{OrderID: "order-1", ItemID: "item-1"})

		if !errors.Is(err, ports.ErrItemNotEligible) {
			t.Fatalf("expected ErrItemNotEligible, got: %v", err)
		}
		if len(returns.entries) != 0 {
			t.Errorf("expected no ledger entry, got %d", len(returns.entries))
		}
	})
}
