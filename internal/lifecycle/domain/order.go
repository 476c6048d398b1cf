package domain

import (
	"errors"
	"strings"
	"time"
)

// OrderStatus captures the lifecycle of an order. An order is completed
// once every one of its items has reached a terminal status.
type OrderStatus string

const (
	OrderActive    OrderStatus = "active"
	OrderCompleted OrderStatus = "completed"
)

// ItemStatus captures the lifecycle of a single order line. Transitions are
// monotonic: once cancelled or returned an item never becomes active again.
type ItemStatus string

const (
	ItemActive    ItemStatus = "active"
	ItemCancelled ItemStatus = "cancelled"
	ItemReturned  ItemStatus = "returned"
)

// TrackingSteps is the delivery pipeline an active item advances through.
var TrackingSteps = []string{"Order Placed", "Shipped", "Out for Delivery", "Delivered"}

// LastTrackingStep is the absorbing final stage of the delivery pipeline.
var LastTrackingStep = len(TrackingSteps) - 1

// Customer is the billing snapshot captured at checkout. The engine treats
// it as opaque beyond basic validation.
type Customer struct {
	FirstName string `json:"first_name"`
	Company   string `json:"company,omitempty"`
	Address   string `json:"address"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// OrderItem is a single product line within an order.
type OrderItem struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	PriceCents   int64      `json:"price_cents"`
	Quantity     int        `json:"quantity"`
	Image        string     `json:"image,omitempty"`
	Status       ItemStatus `json:"status"`
	TrackingStep int        `json:"tracking_step"`
}

// IsTerminal reports whether the item has been cancelled or returned.
func (i OrderItem) IsTerminal() bool {
	return i.Status == ItemCancelled || i.Status == ItemReturned
}

// AdvanceTracking moves an active item one delivery stage forward. The final
// stage is absorbing: further calls are no-ops. It reports whether the step
// changed.
func (i *OrderItem) AdvanceTracking() bool {
	if i.Status != ItemActive || i.TrackingStep >= LastTrackingStep {
		return false
	}
	i.TrackingStep++
	return true
}

// TrackingLabel returns the display name of the item's current delivery stage.
func (i OrderItem) TrackingLabel() string {
	step := i.TrackingStep
	if step < 0 {
		step = 0
	}
	if step > LastTrackingStep {
		step = LastTrackingStep
	}
	return TrackingSteps[step]
}

// Order is a checkout transaction containing one or more line items.
type Order struct {
	ID            string      `json:"id"`
	Items         []OrderItem `json:"items"`
	Customer      Customer    `json:"customer"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	Status        OrderStatus `json:"status"`
	PlacedAt      time.Time   `json:"placed_at"`
}

// Validate ensures the order adheres to business constraints.
func (o Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return errors.New("order id is required")
	}
	if len(o.Items) == 0 {
		return errors.New("order must contain at least one item")
	}
	for _, item := range o.Items {
		if strings.TrimSpace(item.ID) == "" {
			return errors.New("item id is required")
		}
		if item.PriceCents < 0 {
			return errors.New("item price must not be negative")
		}
		if item.Quantity < 1 {
			return errors.New("item quantity must be at least 1")
		}
	}
	return nil
}

// TotalCents sums price times quantity over all items, regardless of their
// current status.
func (o Order) TotalCents() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.PriceCents * int64(item.Quantity)
	}
	return total
}

// Item returns a pointer to the item with the given id, or nil.
func (o *Order) Item(itemID string) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// RecomputeStatus applies the completion rule: completed iff every item is
// terminal.
func (o *Order) RecomputeStatus() {
	for _, item := range o.Items {
		if !item.IsTerminal() {
			o.Status = OrderActive
			return
		}
	}
	o.Status = OrderCompleted
}

// markItem transitions an item to a terminal status. It reports false when
// the item is missing or already terminal, which callers surface as an
// eligibility failure rather than a hard error.
func (o *Order) markItem(itemID string, status ItemStatus) (OrderItem, bool) {
	item := o.Item(itemID)
	if item == nil || item.Status != ItemActive {
		return OrderItem{}, false
	}
	item.Status = status
	o.RecomputeStatus()
	return *item, true
}

// CancelItem marks an active item cancelled and recomputes the order status.
func (o *Order) CancelItem(itemID string) (OrderItem, bool) {
	return o.markItem(itemID, ItemCancelled)
}

// ReturnItem marks an active item returned and recomputes the order status.
func (o *Order) ReturnItem(itemID string) (OrderItem, bool) {
	return o.markItem(itemID, ItemReturned)
}

// AdvanceDelivery moves every active item of an active order one delivery
// stage forward. It reports whether anything changed.
func (o *Order) AdvanceDelivery() bool {
	if o.Status != OrderActive {
		return false
	}
	changed := false
	for idx := range o.Items {
		if o.Items[idx].AdvanceTracking() {
			changed = true
		}
	}
	return changed
}

// Normalize applies defaults to records loaded from the store, where any
// field may be absent. Unknown statuses degrade to active, quantities are
// raised to 1, and tracking steps are clamped to the pipeline bounds.
func (o *Order) Normalize() {
	switch o.Status {
	case OrderActive, OrderCompleted:
	default:
		o.Status = OrderActive
	}
	for idx := range o.Items {
		item := &o.Items[idx]
		switch item.Status {
		case ItemActive, ItemCancelled, ItemReturned:
		default:
			item.Status = ItemActive
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if item.TrackingStep < 0 {
			item.TrackingStep = 0
		}
		if item.TrackingStep > LastTrackingStep {
			item.TrackingStep = LastTrackingStep
		}
	}
}
