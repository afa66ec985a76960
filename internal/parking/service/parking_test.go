package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	parkingerrors "hotelier/internal/parking/errors"
	"hotelier/internal/parking/validator"
	"hotelier/pkg/config"
	mongotx "hotelier/pkg/db/mongo"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/events"
	"hotelier/pkg/identifier"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{
			{Code: 11000, Message: "duplicate key"},
		},
	}
}

type fakeParkingRepo struct {
	byID       map[string]*model.ParkingBooking
	bySlotDate map[string]*model.ParkingBooking
}

func newFakeParkingRepo() *fakeParkingRepo {
	return &fakeParkingRepo{
		byID:       make(map[string]*model.ParkingBooking),
		bySlotDate: make(map[string]*model.ParkingBooking),
	}
}

func slotDateKey(slot, date string) string {
	return slot + "|" + date
}

func (r *fakeParkingRepo) Create(_ context.Context, booking *model.ParkingBooking) error {
	if _, ok := r.byID[booking.ID]; ok {
		return duplicateKeyError()
	}
	if _, ok := r.bySlotDate[slotDateKey(booking.Slot, booking.Date)]; ok {
		return duplicateKeyError()
	}
	copied := *booking
	r.byID[booking.ID] = &copied
	r.bySlotDate[slotDateKey(booking.Slot, booking.Date)] = &copied
	return nil
}

func (r *fakeParkingRepo) FindByID(_ context.Context, id string) (*model.ParkingBooking, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, parkingerrors.ErrNotFound
	}
	return b, nil
}

func (r *fakeParkingRepo) FindAll(_ context.Context, _ int, _ int64) ([]*model.ParkingBooking, error) {
	out := make([]*model.ParkingBooking, 0, len(r.byID))
	for _, b := range r.byID {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeParkingRepo) FindByDate(_ context.Context, date string) ([]*model.ParkingBooking, error) {
	var out []*model.ParkingBooking
	for _, b := range r.byID {
		if b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeParkingRepo) FindBySlotAndDate(_ context.Context, slot, date string) (*model.ParkingBooking, error) {
	b, ok := r.bySlotDate[slotDateKey(slot, date)]
	if !ok {
		return nil, parkingerrors.ErrNotFound
	}
	return b, nil
}

func (r *fakeParkingRepo) FindByUser(_ context.Context, email string, _ int, _ int64) ([]*model.ParkingBooking, error) {
	var out []*model.ParkingBooking
	for _, b := range r.byID {
		if b.UserEmail == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeParkingRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *fakeParkingRepo) Delete(_ context.Context, id string) error {
	b, ok := r.byID[id]
	if !ok {
		return parkingerrors.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.bySlotDate, slotDateKey(b.Slot, b.Date))
	return nil
}

func (r *fakeParkingRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

func (r *fakeParkingRepo) LastID(_ context.Context, prefix string) (string, error) {
	last := ""
	for id := range r.byID {
		if strings.HasPrefix(id, prefix) && id > last {
			last = id
		}
	}
	return last, nil
}

func (r *fakeParkingRepo) EnsureIndexes(context.Context) error {
	return nil
}

func (r *fakeParkingRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type fakeLockRepo struct {
	held map[string]struct{}
}

func newFakeLockRepo() *fakeLockRepo {
	return &fakeLockRepo{held: make(map[string]struct{})}
}

func (l *fakeLockRepo) Acquire(_ context.Context, lockID string, _ time.Duration) error {
	if _, ok := l.held[lockID]; ok {
		return duplicateKeyError()
	}
	l.held[lockID] = struct{}{}
	return nil
}

func (l *fakeLockRepo) Release(_ context.Context, lockID string) error {
	delete(l.held, lockID)
	return nil
}

func (l *fakeLockRepo) EnsureIndexes(context.Context) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		TakeawayMaxOrdersPerSlot: 5,
		Log:                      logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
}

func newTestParkingService(repo *fakeParkingRepo, locks *fakeLockRepo) ParkingService {
	cfg := testConfig()
	idgen, err := identifier.New(identifier.StrategySequential, 6)
	if err != nil {
		panic(err)
	}
	return NewParkingService(
		repo,
		locks,
		validator.NewParkingValidator(cfg.Log),
		idgen,
		events.NoopPublisher{},
		cfg,
	)
}

func validBooking(slot, date string) *model.ParkingBooking {
	return &model.ParkingBooking{
		Slot:          slot,
		Date:          date,
		Duration:      model.ParkingDurationFullDay,
		VehicleNumber: "KA-01-AB-1234",
		UserEmail:     "guest@example.com",
	}
}

func TestAvailabilityEmptyDate(t *testing.T) {
	svc := newTestParkingService(newFakeParkingRepo(), newFakeLockRepo())

	availability, err := svc.Availability(context.Background(), "2026-09-01", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(availability.AvailableSlots) != 50 {
		t.Fatalf("expected 50 available slots, got %d", len(availability.AvailableSlots))
	}
	if len(availability.BookedSlots) != 0 {
		t.Fatalf("expected no booked slots, got %v", availability.BookedSlots)
	}
}

func TestAvailabilityAfterBooking(t *testing.T) {
	repo := newFakeParkingRepo()
	svc := newTestParkingService(repo, newFakeLockRepo())

	if err := svc.Book(context.Background(), validBooking("C5", "2026-09-01")); err != nil {
		t.Fatal(err)
	}

	availability, err := svc.Availability(context.Background(), "2026-09-01", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(availability.AvailableSlots) != 49 {
		t.Fatalf("expected 49 available slots, got %d", len(availability.AvailableSlots))
	}
	if len(availability.BookedSlots) != 1 || availability.BookedSlots[0] != "C5" {
		t.Fatalf("expected booked slots [C5], got %v", availability.BookedSlots)
	}
	for _, slot := range availability.AvailableSlots {
		if slot == "C5" {
			t.Fatal("C5 listed as available after booking")
		}
	}
}

func TestAvailabilityIsGlobalAcrossUsers(t *testing.T) {
	repo := newFakeParkingRepo()
	svc := newTestParkingService(repo, newFakeLockRepo())

	booking := validBooking("B3", "2026-09-01")
	booking.UserEmail = "other@example.com"
	if err := svc.Book(context.Background(), booking); err != nil {
		t.Fatal(err)
	}

	availability, err := svc.Availability(context.Background(), "2026-09-01", "someone-else")
	if err != nil {
		t.Fatal(err)
	}
	if len(availability.BookedSlots) != 1 || availability.BookedSlots[0] != "B3" {
		t.Fatalf("expected B3 booked regardless of requesting user, got %v", availability.BookedSlots)
	}
}

func TestAvailabilityRejectsBadDate(t *testing.T) {
	svc := newTestParkingService(newFakeParkingRepo(), newFakeLockRepo())

	_, err := svc.Availability(context.Background(), "01-09-2026", "")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestBookComputesPriceAndID(t *testing.T) {
	repo := newFakeParkingRepo()
	svc := newTestParkingService(repo, newFakeLockRepo())

	booking := validBooking("C1", "2026-09-01")
	booking.Duration = model.ParkingDuration6Hours
	if err := svc.Book(context.Background(), booking); err != nil {
		t.Fatal(err)
	}

	if booking.Price != 500 {
		t.Fatalf("expected price 500, got %v", booking.Price)
	}
	if !strings.HasPrefix(booking.ID, identifier.PrefixParking) {
		t.Fatalf("expected PB-prefixed ID, got %s", booking.ID)
	}
}

func TestBookRejectsDoubleBooking(t *testing.T) {
	repo := newFakeParkingRepo()
	svc := newTestParkingService(repo, newFakeLockRepo())

	if err := svc.Book(context.Background(), validBooking("C5", "2026-09-01")); err != nil {
		t.Fatal(err)
	}

	second := validBooking("C5", "2026-09-01")
	second.UserEmail = "other@example.com"
	err := svc.Book(context.Background(), second)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestBookSameSlotDifferentDate(t *testing.T) {
	repo := newFakeParkingRepo()
	svc := newTestParkingService(repo, newFakeLockRepo())

	if err := svc.Book(context.Background(), validBooking("C5", "2026-09-01")); err != nil {
		t.Fatal(err)
	}
	if err := svc.Book(context.Background(), validBooking("C5", "2026-09-02")); err != nil {
		t.Fatalf("same slot on a different date should book: %v", err)
	}
}

func TestBookRejectsUnknownSlot(t *testing.T) {
	svc := newTestParkingService(newFakeParkingRepo(), newFakeLockRepo())

	err := svc.Book(context.Background(), validBooking("Z9", "2026-09-01"))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT for unknown slot, got %v", err)
	}
}

func TestBookValidationFailure(t *testing.T) {
	svc := newTestParkingService(newFakeParkingRepo(), newFakeLockRepo())

	booking := validBooking("B1", "2026-09-01")
	booking.UserEmail = "not-an-email"
	err := svc.Book(context.Background(), booking)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestBookConflictWhileLockHeld(t *testing.T) {
	locks := newFakeLockRepo()
	svc := newTestParkingService(newFakeParkingRepo(), locks)

	lockID := fmt.Sprintf("parking_%s_%s", "C5", "2026-09-01")
	if err := locks.Acquire(context.Background(), lockID, time.Minute); err != nil {
		t.Fatal(err)
	}

	err := svc.Book(context.Background(), validBooking("C5", "2026-09-01"))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT while lock held, got %v", err)
	}
}

func TestCancelThenRebook(t *testing.T) {
	repo := newFakeParkingRepo()
	svc := newTestParkingService(repo, newFakeLockRepo())

	booking := validBooking("B10", "2026-09-01")
	if err := svc.Book(context.Background(), booking); err != nil {
		t.Fatal(err)
	}
	if err := svc.Cancel(context.Background(), booking.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Book(context.Background(), validBooking("B10", "2026-09-01")); err != nil {
		t.Fatalf("slot should be rebookable after cancel: %v", err)
	}
}

func TestCancelMissingBooking(t *testing.T) {
	svc := newTestParkingService(newFakeParkingRepo(), newFakeLockRepo())

	err := svc.Cancel(context.Background(), "PB999999")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
