package service

import (
	"context"
	"errors"
	"sync"

	feedbackerrors "hotelier/internal/feedback/errors"
	"hotelier/internal/feedback/repository"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type FeedbackService interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Feedback, int64, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) ([]model.RatingBucket, error)
}

type feedbackService struct {
	repo repository.FeedbackRepository
	cfg  *config.Config
}

func NewFeedbackService(repo repository.FeedbackRepository, cfg *config.Config) FeedbackService {
	return &feedbackService{repo: repo, cfg: cfg}
}

func (s *feedbackService) Create(ctx context.Context, feedback *model.Feedback) error {
	feedback.ID = ""

	if err := validation.Struct(feedback); err != nil {
		s.cfg.Log.Warn("Feedback validation failed", "error", err)
		return apperrors.Validation("Feedback validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		s.cfg.Log.Error("Failed to create feedback", "error", err)
		return apperrors.Internal("Failed to create feedback", err)
	}

	s.cfg.Log.Info("Feedback created", "id", feedback.ID, "rating", feedback.Rating)
	return nil
}

func (s *feedbackService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Feedback, int64, error) {
	var count int64
	var feedback []*model.Feedback
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count feedback", "error", err)
			errCount = apperrors.Internal("Failed to count feedback", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		feedback, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list feedback", "error", err)
			errFind = apperrors.Internal("Failed to retrieve feedback", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return feedback, count, nil
}

func (s *feedbackService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Feedback ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, feedbackerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Feedback", id)
		}
		return apperrors.Internal("Failed to delete feedback", err)
	}

	s.cfg.Log.Info("Feedback deleted", "id", id)
	return nil
}

func (s *feedbackService) Summary(ctx context.Context) ([]model.RatingBucket, error) {
	buckets, err := s.repo.RatingSummary(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to build rating summary", "error", err)
		return nil, apperrors.Internal("Failed to build rating summary", err)
	}
	return buckets, nil
}
