// Package projections maintains read models derived from the primary
// collections. The payments ledger is the only projection: one payment per
// order, refund state mirrored from the returns ledger.
package projections

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
)

// Projector derives and maintains the payments collection. It is not safe
// for concurrent use; the application service serializes access.
type Projector struct {
	payments ports.PaymentRepository
}

func NewProjector(payments ports.PaymentRepository) *Projector {
	return &Projector{payments: payments}
}

// Ensure creates the payment for an order if none exists yet. The amount is
// computed once from the order's current item list and never revisited. The
// call is idempotent.
func (p *Projector) Ensure(ctx context.Context, order domain.Order) (domain.Payment, error) {
	payments, err := p.payments.LoadAll(ctx)
	if err != nil {
		return domain.Payment{}, err
	}

	if existing := findPayment(payments, order.ID); existing != nil {
		return *existing, nil
	}

	payment := domain.NewPayment(uuid.NewString(), order, time.Now().UTC())
	payments = append(payments, payment)
	if err := p.payments.SaveAll(ctx, payments); err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

// MarkRefunded upserts the order's payment into the Refunded state, raising
// the refund step monotonically. A missing payment is created with
// Ensure-equivalent defaults first.
func (p *Projector) MarkRefunded(ctx context.Context, order domain.Order, step int, at time.Time) (domain.Payment, error) {
	payments, err := p.payments.LoadAll(ctx)
	if err != nil {
		return domain.Payment{}, err
	}

	payment := findPayment(payments, order.ID)
	if payment == nil {
		created := domain.NewPayment(uuid.NewString(), order, time.Now().UTC())
		payments = append(payments, created)
		payment = &payments[len(payments)-1]
	}

	payment.MarkRefunded(step, at)

	if err := p.payments.SaveAll(ctx, payments); err != nil {
		return domain.Payment{}, err
	}
	return *payment, nil
}

// Sync reconciles the payments collection against the orders and the returns
// ledger: every observed order gets a payment, and each payment mirrors the
// furthest-advanced refund step of its order's returned items. Returns the
// reconciled collection.
func (p *Projector) Sync(ctx context.Context, orders []domain.Order, returns []domain.ReturnedItem) ([]domain.Payment, error) {
	payments, err := p.payments.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		if findPayment(payments, order.ID) == nil {
			payments = append(payments, domain.NewPayment(uuid.NewString(), order, time.Now().UTC()))
		}
	}

	for _, entry := range returns {
		payment := findPayment(payments, entry.OrderID)
		if payment == nil {
			// The source order is gone but the audit entry survives;
			// reconstruct the payment from the ledger copy.
			payments = append(payments, domain.Payment{
				ID:          uuid.NewString(),
				OrderID:     entry.OrderID,
				Date:        entry.ReturnDate,
				AmountCents: entry.PriceCents * int64(entry.Quantity),
				Status:      domain.PaymentPaid,
			})
			payment = &payments[len(payments)-1]
		}
		payment.MarkRefunded(entry.RefundStep, entry.ReturnDate)
	}

	if err := p.payments.SaveAll(ctx, payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func findPayment(payments []domain.Payment, orderID string) *domain.Payment {
	for idx := range payments {
		if payments[idx].OrderID == orderID {
			return &payments[idx]
		}
	}
	return nil
}
