package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/ports"
)

const snapshotCollection = "session_snapshots"

var (
	_ ports.SnapshotStore = (*SnapshotStore)(nil)
	_ ports.Pinger        = (*SnapshotStore)(nil)
)

type SnapshotStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

func NewSnapshotStore(client *mongo.Client, db *mongo.Database) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		coll:   db.Collection(snapshotCollection),
		now:    time.Now,
	}
}

type mongoSnapshot struct {
	Key       string `bson:"_id"`
	Data      []byte `bson:"data"`
	UpdatedAt int64  `bson:"updated_at"`
}

func toDocument(key string, data []byte, now time.Time) mongoSnapshot {
	return mongoSnapshot{Key: key, Data: data, UpdatedAt: now.Unix()}
}

func (d mongoSnapshot) bytes() ([]byte, error) {
	if len(d.Data) == 0 {
		return nil, domain.ErrMalformedSnapshot
	}
	return d.Data, nil
}

func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	var doc mongoSnapshot
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("find snapshot: %w", err)
	}
	return doc.bytes()
}

func (s *SnapshotStore) Save(ctx context.Context, key string, data []byte) error {
	doc := toDocument(key, data, s.now())
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Clear(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}
