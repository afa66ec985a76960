package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	reservationserrors "hotelier/internal/reservations/errors"
	"hotelier/internal/reservations/validator"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/events"
	"hotelier/pkg/identifier"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeReservationRepo struct {
	byID map[string]*model.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{byID: make(map[string]*model.Reservation)}
}

func (r *fakeReservationRepo) Create(_ context.Context, reservation *model.Reservation) error {
	if _, ok := r.byID[reservation.ID]; ok {
		return mongo.WriteException{
			WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "duplicate key"}},
		}
	}
	copied := *reservation
	r.byID[reservation.ID] = &copied
	return nil
}

func (r *fakeReservationRepo) FindByID(_ context.Context, id string) (*model.Reservation, error) {
	res, ok := r.byID[id]
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	return res, nil
}

func (r *fakeReservationRepo) FindAll(_ context.Context, _ int, _ int64) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, res := range r.byID {
		out = append(out, res)
	}
	return out, nil
}

func (r *fakeReservationRepo) FindByGuest(_ context.Context, email string, _ int, _ int64) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, res := range r.byID {
		if res.GuestEmail == email {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *fakeReservationRepo) Update(_ context.Context, id string, reservation *model.Reservation) error {
	if _, ok := r.byID[id]; !ok {
		return reservationserrors.ErrNotFound
	}
	copied := *reservation
	r.byID[id] = &copied
	return nil
}

func (r *fakeReservationRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return reservationserrors.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeReservationRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

func (r *fakeReservationRepo) LastID(_ context.Context, prefix string) (string, error) {
	last := ""
	for id := range r.byID {
		if strings.HasPrefix(id, prefix) && id > last {
			last = id
		}
	}
	return last, nil
}

func (r *fakeReservationRepo) EnsureIndexes(context.Context) error {
	return nil
}

type countingPublisher struct {
	published []string
}

func (p *countingPublisher) Publish(_ context.Context, eventType, _ string, _ any) error {
	p.published = append(p.published, eventType)
	return nil
}

func (p *countingPublisher) Close() error { return nil }

func newTestReservationService(repo *fakeReservationRepo, publisher events.Publisher) ReservationService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
	idgen, err := identifier.New(identifier.StrategySequential, 6)
	if err != nil {
		panic(err)
	}
	return NewReservationService(repo, validator.NewReservationValidator(cfg.Log), idgen, publisher, cfg)
}

func roomReservation() *model.Reservation {
	return &model.Reservation{
		Kind:       model.ReservationKindRoom,
		ResourceID: "I000012",
		GuestName:  "Meera Shah",
		GuestEmail: "meera@example.com",
		CheckIn:    time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 9, 12, 11, 0, 0, 0, time.UTC),
		Guests:     2,
	}
}

func TestCreateReservation(t *testing.T) {
	publisher := &countingPublisher{}
	svc := newTestReservationService(newFakeReservationRepo(), publisher)

	reservation := roomReservation()
	if err := svc.Create(context.Background(), reservation); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(reservation.ID, identifier.PrefixReservation) {
		t.Fatalf("expected Res-prefixed ID, got %s", reservation.ID)
	}
	if reservation.Status != model.StatusPending {
		t.Fatalf("expected Pending status, got %s", reservation.Status)
	}
	if len(publisher.published) != 1 || publisher.published[0] != events.TypeReservationCreated {
		t.Fatalf("expected reservation.created event, got %v", publisher.published)
	}
}

func TestCreateRejectsInvertedDates(t *testing.T) {
	svc := newTestReservationService(newFakeReservationRepo(), &countingPublisher{})

	reservation := roomReservation()
	reservation.CheckIn, reservation.CheckOut = reservation.CheckOut, reservation.CheckIn
	err := svc.Create(context.Background(), reservation)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for inverted dates, got %v", err)
	}
}

func TestCancelReservation(t *testing.T) {
	publisher := &countingPublisher{}
	repo := newFakeReservationRepo()
	svc := newTestReservationService(repo, publisher)

	reservation := roomReservation()
	if err := svc.Create(context.Background(), reservation); err != nil {
		t.Fatal(err)
	}
	if err := svc.Cancel(context.Background(), reservation.ID); err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetByID(context.Background(), reservation.ID)
	if err != nil {
		t.Fatal("cancelled reservation must remain readable")
	}
	if got.Status != model.StatusCancelled {
		t.Fatalf("expected Cancelled status, got %s", got.Status)
	}
	if publisher.published[len(publisher.published)-1] != events.TypeReservationCancelled {
		t.Fatalf("expected reservation.cancelled event, got %v", publisher.published)
	}
}

func TestCancelTwiceConflicts(t *testing.T) {
	repo := newFakeReservationRepo()
	svc := newTestReservationService(repo, &countingPublisher{})

	reservation := roomReservation()
	if err := svc.Create(context.Background(), reservation); err != nil {
		t.Fatal(err)
	}
	if err := svc.Cancel(context.Background(), reservation.ID); err != nil {
		t.Fatal(err)
	}

	err := svc.Cancel(context.Background(), reservation.ID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT on second cancel, got %v", err)
	}
}

func TestGetByGuestFiltersByEmail(t *testing.T) {
	repo := newFakeReservationRepo()
	svc := newTestReservationService(repo, &countingPublisher{})

	mine := roomReservation()
	if err := svc.Create(context.Background(), mine); err != nil {
		t.Fatal(err)
	}
	other := roomReservation()
	other.GuestEmail = "other@example.com"
	if err := svc.Create(context.Background(), other); err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetByGuest(context.Background(), "meera@example.com", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].GuestEmail != "meera@example.com" {
		t.Fatalf("expected only meera's reservations, got %d", len(got))
	}
}
