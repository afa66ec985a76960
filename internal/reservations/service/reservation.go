package service

import (
	"context"
	"errors"
	"sync"

	reservationserrors "hotelier/internal/reservations/errors"
	"hotelier/internal/reservations/repository"
	"hotelier/internal/reservations/validator"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/events"
	"hotelier/pkg/identifier"
	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const maxCreateAttempts = 3

type ReservationService interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error)
	GetByGuest(ctx context.Context, email string, limit int, offset int64) ([]*model.Reservation, error)
	Update(ctx context.Context, id string, updates *model.ReservationUpdate) error
	Cancel(ctx context.Context, id string) error
}

type reservationService struct {
	repo      repository.ReservationRepository
	validator *validator.ReservationValidator
	idgen     *identifier.Generator
	publisher events.Publisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	reservationValidator *validator.ReservationValidator,
	idgen *identifier.Generator,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		validator: reservationValidator,
		idgen:     idgen,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, reservation *model.Reservation) error {
	if reservation.Status == "" {
		reservation.Status = model.StatusPending
	}

	if err := s.validator.Validate(reservation); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.createWithFreshID(ctx, reservation); err != nil {
		s.cfg.Log.Error("Failed to create reservation", "kind", reservation.Kind, "error", err)
		return err
	}

	if err := s.publisher.Publish(ctx, events.TypeReservationCreated, reservation.ID, reservation); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event", "id", reservation.ID, "error", err)
	}

	s.cfg.Log.Info("Reservation created",
		"id", reservation.ID,
		"kind", reservation.Kind,
		"guest", reservation.GuestEmail,
	)
	return nil
}

func (s *reservationService) createWithFreshID(ctx context.Context, reservation *model.Reservation) error {
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id, err := s.idgen.Next(ctx, identifier.PrefixReservation, s.repo)
		if err != nil {
			return apperrors.Internal("Failed to generate reservation ID", err)
		}
		reservation.ID = id

		err = s.repo.Create(ctx, reservation)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return apperrors.Internal("Failed to create reservation", err)
		}
		s.cfg.Log.Warn("Reservation ID collided, regenerating", "id", id, "attempt", attempt)
	}
	return apperrors.Internal("Failed to allocate a unique reservation ID", nil)
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}
	return reservation, nil
}

func (s *reservationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error) {
	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", err)
			errCount = apperrors.Internal("Failed to count reservations", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		reservations, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", err)
			errFind = apperrors.Internal("Failed to retrieve reservations", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return reservations, count, nil
}

func (s *reservationService) GetByGuest(ctx context.Context, email string, limit int, offset int64) ([]*model.Reservation, error) {
	if email == "" {
		return nil, apperrors.InvalidInput("Guest email cannot be empty")
	}

	reservations, err := s.repo.FindByGuest(ctx, email, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list guest reservations", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}
	return reservations, nil
}

func (s *reservationService) Update(ctx context.Context, id string, updates *model.ReservationUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		return apperrors.Internal("Failed to check reservation existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeReservationUpdates(existing, updates)
	if err := s.repo.Update(ctx, id, merged); err != nil {
		return apperrors.Internal("Failed to update reservation", err)
	}

	s.cfg.Log.Info("Reservation updated", "id", id, "status", merged.Status)
	return nil
}

// Cancel flips the status rather than deleting, so the record stays
// visible in listings and event history.
func (s *reservationService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		return apperrors.Internal("Failed to check reservation existence", err)
	}

	if existing.Status == model.StatusCancelled {
		return apperrors.Conflict("Reservation is already cancelled")
	}

	existing.Status = model.StatusCancelled
	if err := s.repo.Update(ctx, id, existing); err != nil {
		return apperrors.Internal("Failed to cancel reservation", err)
	}

	if err := s.publisher.Publish(ctx, events.TypeReservationCancelled, id, existing); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event", "id", id, "error", err)
	}

	s.cfg.Log.Info("Reservation cancelled", "id", id)
	return nil
}

func (s *reservationService) mergeReservationUpdates(existing *model.Reservation, updates *model.ReservationUpdate) *model.Reservation {
	merged := *existing

	if updates.GuestName != "" {
		merged.GuestName = updates.GuestName
	}
	if updates.CheckIn != nil {
		merged.CheckIn = *updates.CheckIn
	}
	if updates.CheckOut != nil {
		merged.CheckOut = *updates.CheckOut
	}
	if updates.Guests != nil {
		merged.Guests = *updates.Guests
	}
	if updates.TotalAmount != nil {
		merged.TotalAmount = *updates.TotalAmount
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	return &merged
}
