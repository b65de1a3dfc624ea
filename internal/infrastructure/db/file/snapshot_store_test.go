package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartfarming/farm-client/internal/core/domain"
)

func TestSnapshotStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSnapshotStore(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Load(ctx, domain.SnapshotKey); !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Save(ctx, domain.SnapshotKey, []byte("one")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, domain.SnapshotKey, []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Load(ctx, domain.SnapshotKey)
	if err != nil || string(got) != "two" {
		t.Fatalf("expected two, got %q (%v)", got, err)
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "nested"))
	if len(entries) != 1 {
		t.Fatalf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestSnapshotStore_ClearMissingIsNoop(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Clear(context.Background(), "user"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
