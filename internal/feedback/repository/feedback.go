package repository

import (
	"context"
	"fmt"
	"time"

	feedbackerrors "hotelier/internal/feedback/errors"
	"hotelier/pkg/config"
	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Feedback"

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Feedback, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
	RatingSummary(ctx context.Context) ([]model.RatingBucket, error)
}

type mongoFeedbackRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoFeedbackRepository(cfg *config.Config) FeedbackRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFeedbackRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoFeedbackRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoFeedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	feedback.ID = primitive.NewObjectID().Hex()
	feedback.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (r *mongoFeedbackRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Feedback, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find feedback: %w", err)
	}
	defer cursor.Close(ctx)

	var feedback []*model.Feedback
	if err = cursor.All(ctx, &feedback); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}
	return feedback, nil
}

func (r *mongoFeedbackRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}

func (r *mongoFeedbackRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	if result.DeletedCount == 0 {
		return feedbackerrors.ErrNotFound
	}
	return nil
}

// RatingSummary groups feedback by rating, counting entries and summing
// likes per bucket, highest rating first.
func (r *mongoFeedbackRepository) RatingSummary(ctx context.Context) ([]model.RatingBucket, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$rating"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "likes", Value: bson.D{{Key: "$sum", Value: "$likes"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate feedback: %w", err)
	}
	defer cursor.Close(ctx)

	var buckets []model.RatingBucket
	if err = cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode rating summary: %w", err)
	}
	return buckets, nil
}
