package ports

import "context"

// SnapshotStore persists the session snapshot outside the process.
// Load returns domain.ErrSnapshotNotFound when nothing is stored under key.
// Clear on an absent key is not an error.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Clear(ctx context.Context, key string) error
}

// Pinger is implemented by snapshot backends that depend on a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}
