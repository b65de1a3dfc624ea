// Package sealer encrypts session snapshots at rest with NaCl secretbox. It
// wraps any snapshot backend, so the token never lands on disk or in a shared
// cache in clear text.
package sealer

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/ports"
)

const (
	keySize   = 32
	nonceSize = 24
)

var ErrInvalidKey = errors.New("sealing key must be 32 bytes, base64 encoded")

var (
	_ ports.SnapshotStore = (*Store)(nil)
	_ ports.Pinger        = (*Store)(nil)
)

// Store seals on Save and opens on Load. Data that fails to open is reported
// as a malformed snapshot.
type Store struct {
	inner ports.SnapshotStore
	key   [keySize]byte
}

// ParseKey decodes a standard base64 32-byte key.
func ParseKey(encoded string) ([keySize]byte, error) {
	var key [keySize]byte
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) != keySize {
		return key, ErrInvalidKey
	}
	copy(key[:], raw)
	return key, nil
}

func New(inner ports.SnapshotStore, key [keySize]byte) *Store {
	return &Store{inner: inner, key: key}
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("open snapshot: %w", domain.ErrMalformedSnapshot)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, fmt.Errorf("open snapshot: %w", domain.ErrMalformedSnapshot)
	}
	return plain, nil
}

func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("snapshot nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], data, &nonce, &s.key)
	return s.inner.Save(ctx, key, sealed)
}

func (s *Store) Clear(ctx context.Context, key string) error {
	return s.inner.Clear(ctx, key)
}

// Ping delegates to the wrapped backend when it supports it.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.inner.(ports.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
