package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reminderserrors "hotelier/internal/reminders/errors"
	"hotelier/pkg/config"
	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Reminders"

type ReminderRepository interface {
	Create(ctx context.Context, reminder *model.Reminder) error
	FindByID(ctx context.Context, id string) (*model.Reminder, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Reminder, error)
	Count(ctx context.Context) (int64, error)
	FindDue(ctx context.Context, now time.Time) ([]*model.Reminder, error)
	MarkSent(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoReminderRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReminderRepository(cfg *config.Config) ReminderRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReminderRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoReminderRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReminderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "sent", Value: 1},
			{Key: "remind_at", Value: 1},
		},
	})
	return err
}

func (r *mongoReminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reminder.ID = primitive.NewObjectID().Hex()
	reminder.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.collection.InsertOne(ctx, reminder)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (r *mongoReminderRepository) FindByID(ctx context.Context, id string) (*model.Reminder, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var reminder model.Reminder
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reminder)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reminderserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reminder: %w", err)
	}
	return &reminder, nil
}

func (r *mongoReminderRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Reminder, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "remind_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reminders: %w", err)
	}
	defer cursor.Close(ctx)

	var reminders []*model.Reminder
	if err = cursor.All(ctx, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode reminders: %w", err)
	}
	return reminders, nil
}

func (r *mongoReminderRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count reminders: %w", err)
	}
	return count, nil
}

// FindDue returns unsent reminders whose fire time has passed, oldest
// first so long backlogs drain in order.
func (r *mongoReminderRepository) FindDue(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"sent":      false,
		"remind_at": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "remind_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find due reminders: %w", err)
	}
	defer cursor.Close(ctx)

	var reminders []*model.Reminder
	if err = cursor.All(ctx, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode due reminders: %w", err)
	}
	return reminders, nil
}

func (r *mongoReminderRepository) MarkSent(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"sent": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	if result.MatchedCount == 0 {
		return reminderserrors.ErrNotFound
	}
	return nil
}

func (r *mongoReminderRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if result.DeletedCount == 0 {
		return reminderserrors.ErrNotFound
	}
	return nil
}
