package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvukovic/shopcore/internal/database"
)

// Store persists collections as jsonb blobs, one row per collection. The
// whole-collection save keeps the last-writer-wins contract of the local
// file store.
type Store struct {
	pool    *pgxpool.Pool
	metrics *database.Metrics
}

// NewStore constructs a postgres-backed store. Metrics may be nil.
func NewStore(pool *pgxpool.Pool, metrics *database.Metrics) *Store {
	return &Store{pool: pool, metrics: metrics}
}

func (s *Store) Load(ctx context.Context, collection string) ([]byte, error) {
	query := `
		SELECT data
		FROM collections
		WHERE name = $1
	`

	start := time.Now()
	var data []byte
	err := s.pool.QueryRow(ctx, query, collection).Scan(&data)
	s.record(ctx, "load_collection", start)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select collection %s: %w", collection, err)
	}
	return data, nil
}

func (s *Store) Save(ctx context.Context, collection string, data []byte) error {
	query := `
		INSERT INTO collections (name, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`

	start := time.Now()
	_, err := s.pool.Exec(ctx, query, collection, data, time.Now().UTC())
	s.record(ctx, "save_collection", start)

	if err != nil {
		return fmt.Errorf("upsert collection %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection string) error {
	query := `
		DELETE FROM collections
		WHERE name = $1
	`

	start := time.Now()
	_, err := s.pool.Exec(ctx, query, collection)
	s.record(ctx, "delete_collection", start)

	if err != nil {
		return fmt.Errorf("delete collection %s: %w", collection, err)
	}
	return nil
}

func (s *Store) record(ctx context.Context, operation string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordQuery(ctx, operation, time.Since(start).Seconds())
}
