package service

import (
	"context"
	"errors"
	"sync"

	eventserrors "hotelier/internal/events/errors"
	"hotelier/internal/events/repository"
	"hotelier/internal/events/validator"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/identifier"
	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const maxCreateAttempts = 3

type EventService interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Event, int64, error)
	Update(ctx context.Context, id string, updates *model.EventUpdate) error
	Delete(ctx context.Context, id string) error
}

type eventService struct {
	repo      repository.EventRepository
	validator *validator.EventValidator
	idgen     *identifier.Generator
	cfg       *config.Config
}

func NewEventService(
	repo repository.EventRepository,
	eventValidator *validator.EventValidator,
	idgen *identifier.Generator,
	cfg *config.Config,
) EventService {
	return &eventService{
		repo:      repo,
		validator: eventValidator,
		idgen:     idgen,
		cfg:       cfg,
	}
}

func (s *eventService) Create(ctx context.Context, event *model.Event) error {
	if err := s.validator.Validate(event); err != nil {
		s.cfg.Log.Warn("Event validation failed", "error", err)
		return apperrors.Validation("Event validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.createWithFreshID(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to create event", "name", event.Name, "error", err)
		return err
	}

	s.cfg.Log.Info("Event created", "id", event.ID, "name", event.Name, "date", event.Date)
	return nil
}

func (s *eventService) createWithFreshID(ctx context.Context, event *model.Event) error {
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id, err := s.idgen.Next(ctx, identifier.PrefixEvent, s.repo)
		if err != nil {
			return apperrors.Internal("Failed to generate event ID", err)
		}
		event.ID = id

		err = s.repo.Create(ctx, event)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return apperrors.Internal("Failed to create event", err)
		}
		s.cfg.Log.Warn("Event ID collided, regenerating", "id", id, "attempt", attempt)
	}
	return apperrors.Internal("Failed to allocate a unique event ID", nil)
}

func (s *eventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Event", id)
		}
		return nil, apperrors.Internal("Failed to retrieve event", err)
	}
	return event, nil
}

func (s *eventService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Event, int64, error) {
	var count int64
	var events []*model.Event
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count events", "error", err)
			errCount = apperrors.Internal("Failed to count events", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		events, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list events", "error", err)
			errFind = apperrors.Internal("Failed to retrieve events", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return events, count, nil
}

func (s *eventService) Update(ctx context.Context, id string, updates *model.EventUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Event ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Event", id)
		}
		return apperrors.Internal("Failed to check event existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Event update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeEventUpdates(existing, updates)
	if err := s.repo.Update(ctx, id, merged); err != nil {
		return apperrors.Internal("Failed to update event", err)
	}

	s.cfg.Log.Info("Event updated", "id", id)
	return nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Event ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Event", id)
		}
		return apperrors.Internal("Failed to delete event", err)
	}

	s.cfg.Log.Info("Event deleted", "id", id)
	return nil
}

func (s *eventService) mergeEventUpdates(existing *model.Event, updates *model.EventUpdate) *model.Event {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Venue != "" {
		merged.Venue = updates.Venue
	}
	if updates.Date != nil {
		merged.Date = *updates.Date
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}

	return &merged
}
