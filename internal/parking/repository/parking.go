package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	parkingerrors "hotelier/internal/parking/errors"
	"hotelier/pkg/config"
	mongotx "hotelier/pkg/db/mongo"
	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName     = "Parking_bookings"
	LockCollectionName = "Parking_locks"
)

type ParkingRepository interface {
	Create(ctx context.Context, booking *model.ParkingBooking) error
	FindByID(ctx context.Context, id string) (*model.ParkingBooking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingBooking, error)
	FindByDate(ctx context.Context, date string) ([]*model.ParkingBooking, error)
	FindBySlotAndDate(ctx context.Context, slot, date string) (*model.ParkingBooking, error)
	FindByUser(ctx context.Context, email string, limit int, offset int64) ([]*model.ParkingBooking, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	LastID(ctx context.Context, prefix string) (string, error)
	EnsureIndexes(ctx context.Context) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoParkingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoParkingRepository(cfg *config.Config) ParkingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoParkingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout bounds a store call unless we are already inside a
// transaction, whose SessionContext must not be wrapped.
func (r *mongoParkingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureIndexes installs the compound unique index backing the
// one-booking-per-(slot, date) invariant.
func (r *mongoParkingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "slot", Value: 1},
			{Key: "date", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *mongoParkingRepository) Create(ctx context.Context, booking *model.ParkingBooking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		// Duplicate-key errors flow back untouched; the service tells a
		// slot conflict from an ID collision and reacts accordingly.
		if mongo.IsDuplicateKeyError(err) {
			return err
		}
		return fmt.Errorf("failed to create parking booking: %w", err)
	}
	return nil
}

func (r *mongoParkingRepository) FindByID(ctx context.Context, id string) (*model.ParkingBooking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.ParkingBooking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, parkingerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find parking booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoParkingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingBooking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "slot", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find parking bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.ParkingBooking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode parking bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoParkingRepository) FindByDate(ctx context.Context, date string) ([]*model.ParkingBooking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by date: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.ParkingBooking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings by date: %w", err)
	}
	return bookings, nil
}

func (r *mongoParkingRepository) FindBySlotAndDate(ctx context.Context, slot, date string) (*model.ParkingBooking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.ParkingBooking
	err := r.collection.FindOne(ctx, bson.M{"slot": slot, "date": date}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, parkingerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking by slot and date: %w", err)
	}
	return &booking, nil
}

func (r *mongoParkingRepository) FindByUser(ctx context.Context, email string, limit int, offset int64) ([]*model.ParkingBooking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"user_email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by user: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.ParkingBooking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings by user: %w", err)
	}
	return bookings, nil
}

func (r *mongoParkingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count parking bookings: %w", err)
	}
	return count, nil
}

func (r *mongoParkingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete parking booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return parkingerrors.ErrNotFound
	}
	return nil
}

func (r *mongoParkingRepository) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to probe parking booking ID: %w", err)
	}
	return count > 0, nil
}

func (r *mongoParkingRepository) LastID(ctx context.Context, prefix string) (string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"_id": bson.M{"$regex": "^" + prefix}}
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})

	var booking model.ParkingBooking
	err := r.collection.FindOne(ctx, filter, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", fmt.Errorf("failed to find last parking booking ID: %w", err)
	}
	return booking.ID, nil
}

func (r *mongoParkingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
