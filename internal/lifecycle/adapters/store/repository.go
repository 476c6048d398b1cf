// Package store implements the lifecycle repositories over the flat
// key-value record store. Each collection is serialized as a single JSON
// array; reads fail soft, writes replace the collection wholesale.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dvukovic/shopcore/internal/kv"
	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
)

// loadCollection decodes a collection, treating absent or unparseable data
// as an empty collection. Store read problems never abort the caller.
func loadCollection[T any](ctx context.Context, store kv.Store, logger *slog.Logger, collection string) ([]T, error) {
	raw, err := store.Load(ctx, collection)
	if err != nil {
		logger.WarnContext(ctx, "record store read failed; treating collection as empty",
			"collection", collection,
			"error", err,
		)
		return nil, nil
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.WarnContext(ctx, "record store blob is malformed; treating collection as empty",
			"collection", collection,
			"error", err,
		)
		return nil, nil
	}
	return records, nil
}

func saveCollection[T any](ctx context.Context, store kv.Store, collection string, records []T) error {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}
	if err := store.Save(ctx, collection, raw); err != nil {
		return fmt.Errorf("save collection %s: %w", collection, err)
	}
	return nil
}

// Orders persists the orders collection.
type Orders struct {
	store  kv.Store
	logger *slog.Logger
}

func NewOrders(store kv.Store, logger *slog.Logger) *Orders {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orders{store: store, logger: logger}
}

func (r *Orders) LoadAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := loadCollection[domain.Order](ctx, r.store, r.logger, kv.CollectionOrders)
	if err != nil {
		return nil, err
	}
	for idx := range orders {
		orders[idx].Normalize()
	}
	return orders, nil
}

func (r *Orders) SaveAll(ctx context.Context, orders []domain.Order) error {
	return saveCollection(ctx, r.store, kv.CollectionOrders, orders)
}

// Returns persists the returned-items ledger.
type Returns struct {
	store  kv.Store
	logger *slog.Logger
}

func NewReturns(store kv.Store, logger *slog.Logger) *Returns {
	if logger == nil {
		logger = slog.Default()
	}
	return &Returns{store: store, logger: logger}
}

func (r *Returns) LoadAll(ctx context.Context) ([]domain.ReturnedItem, error) {
	items, err := loadCollection[domain.ReturnedItem](ctx, r.store, r.logger, kv.CollectionReturns)
	if err != nil {
		return nil, err
	}
	for idx := range items {
		items[idx].Normalize()
	}
	return items, nil
}

func (r *Returns) SaveAll(ctx context.Context, items []domain.ReturnedItem) error {
	return saveCollection(ctx, r.store, kv.CollectionReturns, items)
}

// Payments persists the payments collection.
type Payments struct {
	store  kv.Store
	logger *slog.Logger
}

func NewPayments(store kv.Store, logger *slog.Logger) *Payments {
	if logger == nil {
		logger = slog.Default()
	}
	return &Payments{store: store, logger: logger}
}

func (r *Payments) LoadAll(ctx context.Context) ([]domain.Payment, error) {
	payments, err := loadCollection[domain.Payment](ctx, r.store, r.logger, kv.CollectionPayments)
	if err != nil {
		return nil, err
	}
	for idx := range payments {
		payments[idx].Normalize()
	}
	return payments, nil
}

func (r *Payments) SaveAll(ctx context.Context, payments []domain.Payment) error {
	return saveCollection(ctx, r.store, kv.CollectionPayments, payments)
}
