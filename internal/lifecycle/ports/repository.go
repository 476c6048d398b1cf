package ports

import (
	"context"
	"errors"

	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
)

// The repositories expose the whole-collection contract of the record store:
// reads return the full collection (empty when absent or unreadable), writes
// replace it. Callers own the read-modify-write cycle.

// OrderRepository persists the orders collection.
type OrderRepository interface {
	LoadAll(ctx context.Context) ([]domain.Order, error)
	SaveAll(ctx context.Context, orders []domain.Order) error
}

// ReturnRepository persists the returned-items ledger.
type ReturnRepository interface {
	LoadAll(ctx context.Context) ([]domain.ReturnedItem, error)
	SaveAll(ctx context.Context, items []domain.ReturnedItem) error
}

// PaymentRepository persists the payments collection.
type PaymentRepository interface {
	LoadAll(ctx context.Context) ([]domain.Payment, error)
	SaveAll(ctx context.Context, payments []domain.Payment) error
}

var (
	// ErrNotFound is returned when the requested order or ledger entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrItemNotEligible is returned when a cancel or return targets an item
	// that is missing or already terminal. Callers treat it as "nothing to
	// do", not as a failure.
	ErrItemNotEligible = errors.New("item not eligible")
)
