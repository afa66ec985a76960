package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	parkingerrors "hotelier/internal/parking/errors"
	"hotelier/internal/parking/repository"
	"hotelier/internal/parking/validator"
	"hotelier/pkg/config"
	mongotx "hotelier/pkg/db/mongo"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/events"
	"hotelier/pkg/identifier"
	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	lockTTL           = 10 * time.Second
	maxCreateAttempts = 3
)

type ParkingService interface {
	Availability(ctx context.Context, date string, userID string) (*model.SlotAvailability, error)
	Quote(slot, duration string) (float64, error)
	Book(ctx context.Context, booking *model.ParkingBooking) error
	GetByID(ctx context.Context, id string) (*model.ParkingBooking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingBooking, int64, error)
	GetByUser(ctx context.Context, email string, limit int, offset int64) ([]*model.ParkingBooking, error)
	Cancel(ctx context.Context, id string) error
}

type parkingService struct {
	repo      repository.ParkingRepository
	lockRepo  mongotx.LockRepository
	validator *validator.ParkingValidator
	idgen     *identifier.Generator
	publisher events.Publisher
	cfg       *config.Config
}

func NewParkingService(
	repo repository.ParkingRepository,
	lockRepo mongotx.LockRepository,
	parkingValidator *validator.ParkingValidator,
	idgen *identifier.Generator,
	publisher events.Publisher,
	cfg *config.Config,
) ParkingService {
	return &parkingService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: parkingValidator,
		idgen:     idgen,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Availability computes the unbooked subset of the slot universe for a
// date. Availability is global: slots are physical resources, so the
// userID some clients still send is accepted but never filtered on.
func (s *parkingService) Availability(ctx context.Context, date string, userID string) (*model.SlotAvailability, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, apperrors.InvalidInput("date must be in 2006-01-02 format")
	}
	if userID != "" {
		s.cfg.Log.Debug("Ignoring user_id on availability query; availability is global", "user_id", userID)
	}

	bookings, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to compute availability", err)
	}

	booked := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		booked[b.Slot] = struct{}{}
	}

	availability := &model.SlotAvailability{
		Date:           date,
		AvailableSlots: make([]string, 0, 50),
		BookedSlots:    make([]string, 0, len(booked)),
	}
	for _, slot := range SlotUniverse() {
		if _, taken := booked[slot]; taken {
			availability.BookedSlots = append(availability.BookedSlots, slot)
		} else {
			availability.AvailableSlots = append(availability.AvailableSlots, slot)
		}
	}
	sort.Strings(availability.BookedSlots)

	return availability, nil
}

func (s *parkingService) Quote(slot, duration string) (float64, error) {
	price, err := Price(slot, duration)
	if err != nil {
		return 0, apperrors.InvalidInput(err.Error())
	}
	return price, nil
}

func (s *parkingService) Book(ctx context.Context, booking *model.ParkingBooking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Parking booking validation failed", "error", err)
		return apperrors.Validation("Parking booking validation failed", map[string]any{"error": err.Error()})
	}

	price, err := Price(booking.Slot, booking.Duration)
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	booking.Price = price

	// Advisory lock narrows the check-then-insert window; the unique
	// (slot, date) index is the authoritative guard underneath it.
	lockID := fmt.Sprintf("parking_%s_%s", booking.Slot, booking.Date)
	if err := s.lockRepo.Acquire(ctx, lockID, lockTTL); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("This slot is currently being booked by another request. Please try again.")
		}
		return apperrors.Internal("Failed to acquire slot lock", err)
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	// Re-check and insert commit together; the unique (slot, date)
	// index still backstops anything the transaction cannot see.
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.FindBySlotAndDate(sessCtx, booking.Slot, booking.Date); err == nil {
			return apperrors.Conflict(fmt.Sprintf("Slot %s is already booked for %s", booking.Slot, booking.Date))
		} else if !errors.Is(err, parkingerrors.ErrNotFound) {
			return apperrors.Internal("Failed to check slot availability", err)
		}
		return s.createWithFreshID(sessCtx, booking)
	})
	if err != nil {
		if appErr := apperrors.AsAppError(err); appErr != nil {
			return appErr
		}
		s.cfg.Log.Error("Failed to create parking booking", "slot", booking.Slot, "date", booking.Date, "error", err)
		return apperrors.Internal("Failed to create parking booking", err)
	}

	if err := s.publisher.Publish(ctx, events.TypeParkingBooked, booking.ID, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish parking event", "id", booking.ID, "error", err)
	}

	s.cfg.Log.Info("Parking booking created",
		"id", booking.ID,
		"slot", booking.Slot,
		"date", booking.Date,
		"price", booking.Price,
	)
	return nil
}

// createWithFreshID allocates a PB-prefixed ID and inserts. A duplicate
// key can mean a lost ID race (regenerate and retry) or a lost slot
// race (surface a conflict); the re-check decides which.
func (s *parkingService) createWithFreshID(ctx context.Context, booking *model.ParkingBooking) error {
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id, err := s.idgen.Next(ctx, identifier.PrefixParking, s.repo)
		if err != nil {
			return apperrors.Internal("Failed to generate booking ID", err)
		}
		booking.ID = id

		err = s.repo.Create(ctx, booking)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return apperrors.Internal("Failed to create parking booking", err)
		}

		if _, findErr := s.repo.FindBySlotAndDate(ctx, booking.Slot, booking.Date); findErr == nil {
			return apperrors.Conflict(fmt.Sprintf("Slot %s is already booked for %s", booking.Slot, booking.Date))
		}

		s.cfg.Log.Warn("Booking ID collided, regenerating", "id", id, "attempt", attempt)
	}
	return apperrors.Internal("Failed to allocate a unique booking ID", nil)
}

func (s *parkingService) GetByID(ctx context.Context, id string) (*model.ParkingBooking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, parkingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Parking booking", id)
		}
		return nil, apperrors.Internal("Failed to retrieve parking booking", err)
	}
	return booking, nil
}

func (s *parkingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingBooking, int64, error) {
	var count int64
	var bookings []*model.ParkingBooking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count parking bookings", "error", err)
			errCount = apperrors.Internal("Failed to count parking bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list parking bookings", "error", err)
			errFind = apperrors.Internal("Failed to retrieve parking bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return bookings, count, nil
}

func (s *parkingService) GetByUser(ctx context.Context, email string, limit int, offset int64) ([]*model.ParkingBooking, error) {
	if email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}

	bookings, err := s.repo.FindByUser(ctx, email, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list user parking bookings", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to retrieve parking bookings", err)
	}
	return bookings, nil
}

func (s *parkingService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, parkingerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Parking booking", id)
		}
		return apperrors.Internal("Failed to cancel parking booking", err)
	}

	s.cfg.Log.Info("Parking booking cancelled", "id", id)
	return nil
}
