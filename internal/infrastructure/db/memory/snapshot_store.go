// Package memory is a process-local snapshot backend. Nothing survives a
// restart; it suits tests and one-shot CLI runs.
package memory

import (
	"context"
	"sync"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

type SnapshotStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{data: make(map[string][]byte)}
}

func (s *SnapshotStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *SnapshotStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), data...)
	return nil
}

func (s *SnapshotStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
