package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/ports"
)

var (
	_ ports.SnapshotStore = (*SnapshotStore)(nil)
	_ ports.Pinger        = (*SnapshotStore)(nil)
)

// SnapshotStore persists session snapshots in Redis.
// Key format: farm:snapshot:<key>
type SnapshotStore struct {
	client *redis.Client
}

// NewSnapshotStore creates a SnapshotStore wrapping the given Redis client.
func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis snapshot load: %w", err)
	}
	return data, nil
}

// Save stores data without expiry; token expiry is checked on load.
func (s *SnapshotStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis snapshot save: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis snapshot clear: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *SnapshotStore) key(key string) string {
	return fmt.Sprintf("farm:snapshot:%s", key)
}
