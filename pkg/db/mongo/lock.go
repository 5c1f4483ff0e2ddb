package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LocksCollection = "inventory_locks"

type lockDocument struct {
	ID        string    `bson:"_id"`
	Owner     string    `bson:"owner"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// LockManager hands out advisory locks backed by a unique _id insert.
// A TTL index on expires_at clears locks left behind by crashed processes.
type LockManager interface {
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (release func(context.Context), err error)
}

type mongoLockManager struct {
	collection *mongo.Collection
}

func NewLockManager(db *mongo.Database) LockManager {
	return &mongoLockManager{collection: db.Collection(LocksCollection)}
}

// Acquire returns ErrLocked when another holder owns a live lock on key.
func (m *mongoLockManager) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (func(context.Context), error) {
	now := Now()

	// A lock past its expiry that the TTL monitor has not reaped yet is taken over.
	_, _ = m.collection.DeleteOne(ctx, bson.M{"_id": key, "expires_at": bson.M{"$lte": now}})

	_, err := m.collection.InsertOne(ctx, lockDocument{
		ID:        key,
		Owner:     owner,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, key)
		}
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}

	release := func(ctx context.Context) {
		_, _ = m.collection.DeleteOne(ctx, bson.M{"_id": key, "owner": owner})
	}
	return release, nil
}
