package domain

import "time"

// PaymentStatus captures the state of the per-order financial record.
// Refunded is terminal: there is no transition back to Paid.
type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "Paid"
	PaymentRefunded PaymentStatus = "Refunded"
)

// Payment is the financial record derived from order and return state. There
// is at most one payment per order. The amount is fixed when the payment is
// first created and is not adjusted when items are later cancelled.
type Payment struct {
	ID          string        `json:"id"`
	OrderID     string        `json:"order_id"`
	Date        time.Time     `json:"date"`
	AmountCents int64         `json:"amount_cents"`
	Method      string        `json:"method,omitempty"`
	Status      PaymentStatus `json:"status"`
	RefundStep  int           `json:"refund_step"`
	RefundDate  time.Time     `json:"refund_date,omitzero"`
}

// NewPayment derives a Paid payment from an order, summing price times
// quantity over the order's current item list.
func NewPayment(id string, order Order, at time.Time) Payment {
	return Payment{
		ID:          id,
		OrderID:     order.ID,
		Date:        at,
		AmountCents: order.TotalCents(),
		Method:      order.PaymentMethod,
		Status:      PaymentPaid,
		RefundStep:  0,
	}
}

// MarkRefunded flips the payment to Refunded and raises the refund step to
// the furthest stage observed so far. The step never moves backward. A zero
// refund date leaves the existing one untouched.
func (p *Payment) MarkRefunded(step int, at time.Time) {
	p.Status = PaymentRefunded
	if step > p.RefundStep {
		p.RefundStep = step
	}
	if p.RefundStep > LastRefundStep {
		p.RefundStep = LastRefundStep
	}
	if !at.IsZero() {
		p.RefundDate = at
	}
}

// Normalize applies defaults to records loaded from the store.
func (p *Payment) Normalize() {
	switch p.Status {
	case PaymentPaid, PaymentRefunded:
	default:
		p.Status = PaymentPaid
	}
	if p.RefundStep < 0 {
		p.RefundStep = 0
	}
	if p.RefundStep > LastRefundStep {
		p.RefundStep = LastRefundStep
	}
}
