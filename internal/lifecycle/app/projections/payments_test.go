package projections_test

import (
	"context"
	"testing"
	"time"

	"github.com/dvukovic/shopcore/internal/lifecycle/app/projections"
	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
)

type paymentRepo struct {
	payments []domain.Payment
	saves    int
}

func (r *paymentRepo) LoadAll(context.Context) ([]domain.Payment, error) {
	out := make([]domain.Payment, len(r.payments))
	copy(out, r.payments)
	return out, nil
}

func (r *paymentRepo) SaveAll(_ context.Context, payments []domain.Payment) error {
	r.payments = make([]domain.Payment, len(payments))
	copy(r.payments, payments)
	r.saves++
	return nil
}

func testOrder() domain.Order {
	return domain.Order{
		ID: "order-1",
		Items: []domain.OrderItem{
			{ID: "item-1", PriceCents: 10000, Quantity: 1, Status: domain.ItemActive},
			{ID: "item-2", PriceCents: 5000, Quantity: 1, Status: domain.ItemActive},
		},
		Status: domain.OrderActive,
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	repo := &paymentRepo{}
	projector := projections.NewProjector(repo)
	ctx := context.Background()

	first, err := projector.Ensure(ctx, testOrder())
	if err != nil {
		t.Fatalf("Ensure() failed: %v", err)
	}
	if first.AmountCents != 15000 {
		t.Errorf("amount = %d, want 15000", first.AmountCents)
	}
	if first.Status != domain.PaymentPaid {
		t.Errorf("status = %s, want %s", first.Status, domain.PaymentPaid)
	}

	second, err := projector.Ensure(ctx, testOrder())
	if err != nil {
		t.Fatalf("second Ensure() failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second Ensure() created a new payment: %s != %s", second.ID, first.ID)
	}
	if len(repo.payments) != 1 {
		t.Errorf("payments collection has %d records, want 1", len(repo.payments))
	}
}

func TestMarkRefundedCreatesWhenAbsent(t *testing.T) {
	repo := &paymentRepo{}
	projector := projections.NewProjector(repo)
	at := time.Now().UTC()

	payment, err := projector.MarkRefunded(context.Background(), testOrder(), 0, at)
	if err != nil {
		t.Fatalf("MarkRefunded() failed: %v", err)
	}

	if payment.Status != domain.PaymentRefunded {
		t.Errorf("status = %s, want %s", payment.Status, domain.PaymentRefunded)
	}
	if payment.AmountCents != 15000 {
		t.Errorf("amount = %d, want ensure-equivalent 15000", payment.AmountCents)
	}
	if payment.RefundStep != 0 {
		t.Errorf("refund step = %d, want 0", payment.RefundStep)
	}
}

func TestMarkRefundedKeepsFurthestStep(t *testing.T) {
	repo := &paymentRepo{}
	projector := projections.NewProjector(repo)
	ctx := context.Background()

	if _, err := projector.MarkRefunded(ctx, testOrder(), 3, time.Now().UTC()); err != nil {
		t.Fatalf("MarkRefunded() failed: %v", err)
	}
	payment, err := projector.MarkRefunded(ctx, testOrder(), 1, time.Now().UTC())
	if err != nil {
		t.Fatalf("MarkRefunded() failed: %v", err)
	}

	if payment.RefundStep != 3 {
		t.Errorf("refund step = %d, want furthest 3", payment.RefundStep)
	}
	if len(repo.payments) != 1 {
		t.Errorf("payments collection has %d records, want 1", len(repo.payments))
	}
}

func TestSyncEnsuresAndMirrors(t *testing.T) {
	repo := &paymentRepo{}
	projector := projections.NewProjector(repo)
	ctx := context.Background()

	order := testOrder()
	entry := domain.NewReturnedItem(order.ID, order.Items[0], time.Now().UTC())
	entry.RefundStep = 2

	payments, err := projector.Sync(ctx, []domain.Order{order}, []domain.ReturnedItem{entry})
	if err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("Sync() produced %d payments, want 1", len(payments))
	}

	payment := payments[0]
	if payment.Status != domain.PaymentRefunded {
		t.Errorf("status = %s, want %s", payment.Status, domain.PaymentRefunded)
	}
	if payment.RefundStep != 2 {
		t.Errorf("refund step = %d, want mirrored 2", payment.RefundStep)
	}
	if !payment.RefundDate.Equal(entry.ReturnDate) {
		t.Errorf("refund date = %v, want return date %v", payment.RefundDate, entry.ReturnDate)
	}
}

func TestSyncReconstructsPaymentForOrphanedEntry(t *testing.T) {
	repo := &paymentRepo{}
	projector := projections.NewProjector(repo)

	entry := domain.ReturnedItem{
		OrderID:    "gone-order",
		ItemID:     "item-9",
		PriceCents: 2500,
		Quantity:   2,
		ReturnDate: time.Now().UTC(),
		RefundStep: 1,
	}

	payments, err := projector.Sync(context.Background(), nil, []domain.ReturnedItem{entry})
	if err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("Sync() produced %d payments, want 1", len(payments))
	}
	if payments[0].AmountCents != 5000 {
		t.Errorf("amount = %d, want reconstructed 5000", payments[0].AmountCents)
	}
	if payments[0].Status != domain.PaymentRefunded {
		t.Errorf("status = %s, want %s", payments[0].Status, domain.PaymentRefunded)
	}
}

func TestSyncAtMostOnePaymentPerOrder(t *testing.T) {
	repo := &paymentRepo{}
	projector := projections.NewProjector(repo)
	ctx := context.Background()

	order := testOrder()
	for range 3 {
		if _, err := projector.Sync(ctx, []domain.Order{order}, nil); err != nil {
			t.Fatalf("Sync() failed: %v", err)
		}
	}

	count := 0
	for _, p := range repo.payments {
		if p.OrderID == order.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("found %d payments for %s, want 1", count, order.ID)
	}
}
