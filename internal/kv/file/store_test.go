package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dvukovic/shopcore/internal/kv/file"
)

func newStore(t *testing.T) (*file.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	store, err := file.NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	return store, path
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "orders", []byte(`[{"id":"order-1"}]`)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	blob, err := store.Load(ctx, "orders")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(blob) != `[{"id":"order-1"}]` {
		t.Errorf("Load() = %s, want saved blob", blob)
	}
}

func TestFileStoreMissingCollection(t *testing.T) {
	store, _ := newStore(t)

	blob, err := store.Load(context.Background(), "payments")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if blob != nil {
		t.Errorf("Load() = %s, want nil for an absent collection", blob)
	}
}

func TestFileStoreSurvivesCorruptFile(t *testing.T) {
	store, path := newStore(t)
	ctx := context.Background()

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupting store file: %v", err)
	}

	blob, err := store.Load(ctx, "orders")
	if err != nil {
		t.Fatalf("Load() on corrupt file failed: %v", err)
	}
	if blob != nil {
		t.Errorf("Load() = %s, want nil for a corrupt store", blob)
	}

	// Writes recover the store from scratch.
	if err := store.Save(ctx, "orders", []byte(`[]`)); err != nil {
		t.Fatalf("Save() after corruption failed: %v", err)
	}
	blob, err = store.Load(ctx, "orders")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(blob) != `[]` {
		t.Errorf("Load() = %s, want []", blob)
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "returned_items", []byte(`[1]`)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := store.Delete(ctx, "returned_items"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	blob, err := store.Load(ctx, "returned_items")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if blob != nil {
		t.Errorf("Load() = %s, want nil after delete", blob)
	}
}

func TestFileStoreKeepsOtherCollections(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "orders", []byte(`["a"]`)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := store.Save(ctx, "payments", []byte(`["b"]`)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	blob, err := store.Load(ctx, "orders")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(blob) != `["a"]` {
		t.Errorf("orders = %s, want [\"a\"]", blob)
	}
}
