package domain

import "time"

// RefundSteps is the pipeline a returned item advances through until the
// amount is credited back.
var RefundSteps = []string{"Return Initiated", "Received by Warehouse", "Refund Processed", "Amount Credited"}

// LastRefundStep is the absorbing final stage of the refund pipeline.
var LastRefundStep = len(RefundSteps) - 1

// ReturnedItem is a ledger entry created when an item is returned. It is a
// decoupled copy of the item at the moment of return and lives independently
// of the source order: deleting it does not touch the order or its payment.
type ReturnedItem struct {
	OrderID    string    `json:"order_id"`
	ItemID     string    `json:"item_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Quantity   int       `json:"quantity"`
	Image      string    `json:"image,omitempty"`
	ReturnDate time.Time `json:"return_date"`
	RefundStep int       `json:"refund_step"`
}

// NewReturnedItem snapshots an order item into the returns ledger.
func NewReturnedItem(orderID string, item OrderItem, at time.Time) ReturnedItem {
	return ReturnedItem{
		OrderID:    orderID,
		ItemID:     item.ID,
		Name:       item.Name,
		PriceCents: item.PriceCents,
		Quantity:   item.Quantity,
		Image:      item.Image,
		ReturnDate: at,
		RefundStep: 0,
	}
}

// AdvanceRefund moves the entry one refund stage forward. It reports whether
// the step changed and whether this call reached the final stage for the
// first time, which is the trigger for crediting the payment.
func (r *ReturnedItem) AdvanceRefund() (changed, completed bool) {
	if r.RefundStep >= LastRefundStep {
		return false, false
	}
	r.RefundStep++
	return true, r.RefundStep == LastRefundStep
}

// Completed reports whether the refund has reached the final stage.
func (r ReturnedItem) Completed() bool {
	return r.RefundStep >= LastRefundStep
}

// RefundLabel returns the display name of the entry's current refund stage.
func (r ReturnedItem) RefundLabel() string {
	step := r.RefundStep
	if step < 0 {
		step = 0
	}
	if step > LastRefundStep {
		step = LastRefundStep
	}
	return RefundSteps[step]
}

// Normalize applies defaults to entries loaded from the store.
func (r *ReturnedItem) Normalize() {
	if r.Quantity < 1 {
		r.Quantity = 1
	}
	if r.RefundStep < 0 {
		r.RefundStep = 0
	}
	if r.RefundStep > LastRefundStep {
		r.RefundStep = LastRefundStep
	}
}
