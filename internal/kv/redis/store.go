package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store keeps collections in redis, one key per collection. It is used as
// the optional remote mirror: the engine never treats it as the source of
// truth.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore constructs a redis-backed store. Keys are namespaced with the
// given prefix.
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "shopcore"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(collection string) string {
	return fmt.Sprintf("%s:%s", s.prefix, collection)
}

func (s *Store) Load(ctx context.Context, collection string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(collection)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", collection, err)
	}
	return data, nil
}

func (s *Store) Save(ctx context.Context, collection string, data []byte) error {
	if err := s.client.Set(ctx, s.key(collection), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection string) error {
	if err := s.client.Del(ctx, s.key(collection)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", collection, err)
	}
	return nil
}
