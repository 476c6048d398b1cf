// Package kv defines the flat key-value boundary the engine persists through.
// A collection is an opaque byte blob addressed by name; saves replace the
// whole blob (last-writer-wins, no merge).
package kv

import "context"

// Store is the backing key-value store. Load returns nil bytes without error
// when the collection has never been written.
type Store interface {
	Load(ctx context.Context, collection string) ([]byte, error)
	Save(ctx context.Context, collection string, data []byte) error
	Delete(ctx context.Context, collection string) error
}

// Collection names used by the engine.
const (
	CollectionOrders   = "orders"
	CollectionReturns  = "returned_items"
	CollectionPayments = "payments"
)
