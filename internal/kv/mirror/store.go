package mirror

import (
	"context"
	"log/slog"

	"github.com/dvukovic/shopcore/internal/kv"
)

// Store writes through to a primary store and mirrors every write to a
// best-effort secondary, typically a remote backend. Mirror failures are
// logged and swallowed: the primary stays authoritative for the session and
// the caller never sees a remote sync error.
type Store struct {
	primary kv.Store
	mirror  kv.Store
	logger  *slog.Logger
}

// NewStore wraps a primary store with a best-effort mirror.
func NewStore(primary, mirror kv.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{primary: primary, mirror: mirror, logger: logger}
}

// Load always reads from the primary.
func (s *Store) Load(ctx context.Context, collection string) ([]byte, error) {
	return s.primary.Load(ctx, collection)
}

func (s *Store) Save(ctx context.Context, collection string, data []byte) error {
	if err := s.primary.Save(ctx, collection, data); err != nil {
		return err
	}
	if err := s.mirror.Save(ctx, collection, data); err != nil {
		s.logger.WarnContext(ctx, "mirror save failed; continuing with local store",
			"collection", collection,
			"error", err,
		)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection string) error {
	if err := s.primary.Delete(ctx, collection); err != nil {
		return err
	}
	if err := s.mirror.Delete(ctx, collection); err != nil {
		s.logger.WarnContext(ctx, "mirror delete failed; continuing with local store",
			"collection", collection,
			"error", err,
		)
	}
	return nil
}
