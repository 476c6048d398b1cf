package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
)

// ItemInput is a cart line supplied at checkout.
type ItemInput struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	Image      string `json:"image,omitempty"`
}

type PlaceOrderCommand struct {
	Items         []ItemInput
	Customer      domain.Customer
	PaymentMethod string
}

func (c PlaceOrderCommand) Validate() error {
	if len(c.Items) == 0 {
		return errors.New("order must contain at least one item")
	}
	for _, item := range c.Items {
		if strings.TrimSpace(item.Name) == "" {
			return errors.New("item name is required")
		}
		if item.PriceCents < 0 {
			return errors.New("item price must not be negative")
		}
		if item.Quantity < 1 {
			return errors.New("item quantity must be at least 1")
		}
	}
	if strings.TrimSpace(c.Customer.FirstName) == "" {
		return errors.New("customer first_name is required")
	}
	if !strings.Contains(c.Customer.Email, "@") {
		return errors.New("customer email must be valid")
	}
	if strings.TrimSpace(c.PaymentMethod) == "" {
		return errors.New("payment_method is required")
	}
	return nil
}

// PlaceOrderHandler is the handler contract, satisfied by both the core
// handler and its observable decorator.
type PlaceOrderHandler interface {
	Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error)
}

type PlaceOrderCommandHandler struct {
	orders ports.OrderRepository
	events ports.EventBus
}

func NewPlaceOrderCommandHandler(orders ports.OrderRepository, events ports.EventBus) *PlaceOrderCommandHandler {
	return &PlaceOrderCommandHandler{
		orders: orders,
		events: events,
	}
}

func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(cmd.Items))
	for _, input := range cmd.Items {
		items = append(items, domain.OrderItem{
			ID:           uuid.NewString(),
			Name:         input.Name,
			PriceCents:   input.PriceCents,
			Quantity:     input.Quantity,
			Image:        input.Image,
			Status:       domain.ItemActive,
			TrackingStep: 0,
		})
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		Items:         items,
		Customer:      cmd.Customer,
		PaymentMethod: cmd.PaymentMethod,
		Status:        domain.OrderActive,
		PlacedAt:      time.Now().UTC(),
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	orders = append(orders, order)
	if err := h.orders.SaveAll(ctx, orders); err != nil {
		return nil, err
	}

	// No payment is created here: the payments projection picks the order up
	// lazily the first time the collection is observed.

	if err := h.events.PublishOrderPlaced(ctx, order.ID); err != nil {
		return &order, fmt.Errorf("order saved but failed to publish event: %w", err)
	}

	return &order, nil
}
