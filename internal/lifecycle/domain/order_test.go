package domain_test

import (
	"testing"
	"time"

	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
)

func twoItemOrder() domain.Order {
	return domain.Order{
		ID: "order-1",
		Items: []domain.OrderItem{
			{ID: "item-1", Name: "Headphones", PriceCents: 10000, Quantity: 1, Status: domain.ItemActive},
			{ID: "item-2", Name: "Keyboard", PriceCents: 5000, Quantity: 1, Status: domain.ItemActive},
		},
		Status:   domain.OrderActive,
		PlacedAt: time.Now().UTC(),
	}
}

func TestOrderValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Order)
		wantErr bool
	}{
		{"valid order", func(o *domain.Order) {}, false},
		{"missing id", func(o *domain.Order) { o.ID = " " }, true},
		{"no items", func(o *domain.Order) { o.Items = nil }, true},
		{"missing item id", func(o *domain.Order) { o.Items[0].ID = "" }, true},
		{"negative price", func(o *domain.Order) { o.Items[1].PriceCents = -1 }, true},
		{"zero quantity", func(o *domain.Order) { o.Items[0].Quantity = 0 }, true},
		{"free item is allowed", func(o *domain.Order) { o.Items[0].PriceCents = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := twoItemOrder()
			tt.mutate(&order)
			err := order.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Order.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOrderTotalCents(t *testing.T) {
	order := twoItemOrder()
	order.Items[1].Quantity = 3

	if got := order.TotalCents(); got != 10000+3*5000 {
		t.Errorf("TotalCents() = %d, want %d", got, 10000+3*5000)
	}
}

func TestOrderCancelItem(t *testing.T) {
	t.Run("cancelling one of two items keeps the order active", func(t *testing.T) {
		order := twoItemOrder()

		item, ok := order.CancelItem("item-1")
		if !ok {
			t.Fatal("expected cancel to apply")
		}
		if item.Status != domain.ItemCancelled {
			t.Errorf("item status = %s, want %s", item.Status, domain.ItemCancelled)
		}
		if order.Status != domain.OrderActive {
			t.Errorf("order status = %s, want %s", order.Status, domain.OrderActive)
		}
	})

	t.Run("terminal item is not eligible", func(t *testing.T) {
		order := twoItemOrder()
		order.Items[0].Status = domain.ItemReturned

		if _, ok := order.CancelItem("item-1"); ok {
			t.Error("expected cancel of a returned item to be rejected")
		}
		if order.Items[0].Status != domain.ItemReturned {
			t.Errorf("item status = %s, want unchanged %s", order.Items[0].Status, domain.ItemReturned)
		}
	})

	t.Run("unknown item is not eligible", func(t *testing.T) {
		order := twoItemOrder()
		if _, ok := order.CancelItem("missing"); ok {
			t.Error("expected cancel of an unknown item to be rejected")
		}
	})
}

func TestOrderCompletionInvariant(t *testing.T) {
	order := twoItemOrder()

	if _, ok := order.CancelItem("item-1"); !ok {
		t.Fatal("expected cancel to apply")
	}
	if order.Status != domain.OrderActive {
		t.Fatalf("order status = %s, want %s", order.Status, domain.OrderActive)
	}

	if _, ok := order.ReturnItem("item-2"); !ok {
		t.Fatal("expected return to apply")
	}
	if order.Status != domain.OrderCompleted {
		t.Errorf("order status = %s, want %s after all items terminal", order.Status, domain.OrderCompleted)
	}
}

func TestAdvanceDeliveryCapsAtFinalStage(t *testing.T) {
	order := twoItemOrder()

	steps := []int{}
	for range 5 {
		order.AdvanceDelivery()
		steps = append(steps, order.Items[0].TrackingStep)
	}

	want := []int{1, 2, 3, 3, 3}
	for i, step := range steps {
		if step != want[i] {
			t.Errorf("tick %d: tracking step = %d, want %d", i+1, step, want[i])
		}
	}
	if order.Items[0].TrackingLabel() != "Delivered" {
		t.Errorf("tracking label = %q, want %q", order.Items[0].TrackingLabel(), "Delivered")
	}
}

func TestAdvanceDeliverySkipsTerminalItems(t *testing.T) {
	order := twoItemOrder()
	order.Items[0].Status = domain.ItemCancelled
	order.Items[0].TrackingStep = 1

	order.AdvanceDelivery()

	if order.Items[0].TrackingStep != 1 {
		t.Errorf("cancelled item tracking step = %d, want frozen at 1", order.Items[0].TrackingStep)
	}
	if order.Items[1].TrackingStep != 1 {
		t.Errorf("active item tracking step = %d, want 1", order.Items[1].TrackingStep)
	}
}

func TestAdvanceDeliverySkipsCompletedOrders(t *testing.T) {
	order := twoItemOrder()
	order.Items[0].Status = domain.ItemCancelled
	order.Items[1].Status = domain.ItemReturned
	order.RecomputeStatus()

	if order.AdvanceDelivery() {
		t.Error("expected no change on a completed order")
	}
}

func TestOrderNormalize(t *testing.T) {
	order := domain.Order{
		ID: "order-1",
		Items: []domain.OrderItem{
			{ID: "item-1", Quantity: 0, TrackingStep: 9, Status: "shipped?"},
		},
		Status: "",
	}

	order.Normalize()

	if order.Status != domain.OrderActive {
		t.Errorf("order status = %s, want %s", order.Status, domain.OrderActive)
	}
	item := order.Items[0]
	if item.Status != domain.ItemActive {
		t.Errorf("item status = %s, want %s", item.Status, domain.ItemActive)
	}
	if item.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", item.Quantity)
	}
	if item.TrackingStep != domain.LastTrackingStep {
		t.Errorf("tracking step = %d, want clamped to %d", item.TrackingStep, domain.LastTrackingStep)
	}
}
