package mongo

import (
	"context"
	"time"

	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LockRepository hands out short-lived advisory locks keyed by an
// arbitrary string. Acquire piggybacks on the _id unique index: a
// duplicate-key error means another request holds the lock.
type LockRepository interface {
	Acquire(ctx context.Context, lockID string, ttl time.Duration) error
	Release(ctx context.Context, lockID string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoLockRepository struct {
	collection *mongo.Collection
}

func NewLockRepository(db *mongo.Database, collectionName string) LockRepository {
	return &mongoLockRepository{collection: db.Collection(collectionName)}
}

func (r *mongoLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) error {
	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}
	_, err := r.collection.InsertOne(ctx, lock)
	return err
}

func (r *mongoLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}

// EnsureIndexes installs a TTL index so abandoned locks expire on their
// own instead of wedging a slot.
func (r *mongoLockRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}
