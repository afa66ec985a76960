package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	orderserrors "hotelier/internal/orders/errors"
	"hotelier/internal/orders/repository"
	"hotelier/internal/orders/validator"
	"hotelier/pkg/config"
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

type fakeOrderRepo struct {
	byID map[string]*model.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byID: make(map[string]*model.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *model.Order) error {
	if _, ok := r.byID[order.ID]; ok {
		return duplicateKeyError()
	}
	copied := *order
	r.byID[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id string) (*model.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, orderserrors.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, filter repository.Filter, _ int, _ int64) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range r.byID {
		if filter.Type != "" && o.Type != filter.Type {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.Email != "" && o.CustomerEmail != filter.Email {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrderRepo) Count(ctx context.Context, filter repository.Filter) (int64, error) {
	orders, err := r.FindAll(ctx, filter, 0, 0)
	return int64(len(orders)), err
}

func (r *fakeOrderRepo) Update(_ context.Context, id string, order *model.Order) error {
	if _, ok := r.byID[id]; !ok {
		return orderserrors.ErrNotFound
	}
	copied := *order
	r.byID[id] = &copied
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return orderserrors.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeOrderRepo) FindScheduledBetween(_ context.Context, orderType string, start, end time.Time) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range r.byID {
		if o.Type != orderType || o.Status == model.StatusCancelled || o.ScheduledAt == nil {
			continue
		}
		ts := *o.ScheduledAt
		if !ts.Before(start) && ts.Before(end) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) CountScheduledBetween(ctx context.Context, orderType string, start, end time.Time) (int64, error) {
	orders, err := r.FindScheduledBetween(ctx, orderType, start, end)
	return int64(len(orders)), err
}

func (r *fakeOrderRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

func (r *fakeOrderRepo) LastID(_ context.Context, prefix string) (string, error) {
	last := ""
	for id := range r.byID {
		if strings.HasPrefix(id, prefix) && id > last {
			last = id
		}
	}
	return last, nil
}

func (r *fakeOrderRepo) EnsureIndexes(context.Context) error {
	return nil
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

func newTestOrderService(repo *fakeOrderRepo) OrderService {
	cfg := &config.Config{
		TakeawayMaxOrdersPerSlot: 5,
		Log:                      logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
	idgen, err := identifier.New(identifier.StrategySequential, 6)
	if err != nil {
		panic(err)
	}
	return NewOrderService(
		repo,
		newFakeLockRepo(),
		validator.NewOrderValidator(cfg.Log),
		idgen,
		events.NoopPublisher{},
		cfg,
	)
}

func takeawayOrder(at time.Time) *model.Order {
	return &model.Order{
		Type:          model.OrderTypeTakeaway,
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		Items: []model.OrderItem{
			{Name: "Paneer Tikka", Price: 320},
			{Name: "Garlic Naan", Price: 80},
		},
		ScheduledAt: &at,
	}
}

func TestCreateTakeawayOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestOrderService(repo)

	now := dayAt(9, 0)
	order := takeawayOrder(dayAt(19, 0))
	if err := svc.Create(context.Background(), now, order); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(order.ID, identifier.PrefixOrder) {
		t.Fatalf("expected O-prefixed ID, got %s", order.ID)
	}
	if order.Status != model.StatusPending {
		t.Fatalf("expected Pending status, got %s", order.Status)
	}
	if order.Total != 400 {
		t.Fatalf("expected total 400, got %v", order.Total)
	}
}

func TestCreateSixthOrderInSlotRejected(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestOrderService(repo)
	now := dayAt(9, 0)

	for i := 0; i < 5; i++ {
		if err := svc.Create(context.Background(), now, takeawayOrder(dayAt(19, 0))); err != nil {
			t.Fatalf("order %d: %v", i+1, err)
		}
	}

	err := svc.Create(context.Background(), now, takeawayOrder(dayAt(19, 15)))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT for full slot, got %v", err)
	}

	slots, err := svc.TakeawaySlots(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if got := slotByTime(t, slots, "19:00").Availability; got != 0 {
		t.Fatalf("19:00 availability = %d, want 0", got)
	}
}

func TestCreateCancelledOrdersFreeCapacity(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestOrderService(repo)
	now := dayAt(9, 0)

	var ids []string
	for i := 0; i < 5; i++ {
		order := takeawayOrder(dayAt(19, 0))
		if err := svc.Create(context.Background(), now, order); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, order.ID)
	}

	if err := svc.Update(context.Background(), ids[0], &model.OrderUpdate{Status: model.StatusCancelled}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Create(context.Background(), now, takeawayOrder(dayAt(19, 0))); err != nil {
		t.Fatalf("cancelled order should free slot capacity: %v", err)
	}
}

func TestCreateRejectsOutOfHoursPickup(t *testing.T) {
	svc := newTestOrderService(newFakeOrderRepo())

	err := svc.Create(context.Background(), dayAt(9, 0), takeawayOrder(dayAt(16, 0)))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT for out-of-hours pickup, got %v", err)
	}
}

func TestCreateRejectsPastPickup(t *testing.T) {
	svc := newTestOrderService(newFakeOrderRepo())

	err := svc.Create(context.Background(), dayAt(20, 0), takeawayOrder(dayAt(19, 0)))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT for past pickup, got %v", err)
	}
}

func TestCreateRoomServiceRequiresRoomNumber(t *testing.T) {
	svc := newTestOrderService(newFakeOrderRepo())

	order := &model.Order{
		Type:          model.OrderTypeRoomService,
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		Items:         []model.OrderItem{{Name: "Club Sandwich", Price: 240}},
	}
	err := svc.Create(context.Background(), dayAt(9, 0), order)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR without room number, got %v", err)
	}

	order.RoomNumber = "204"
	if err := svc.Create(context.Background(), dayAt(9, 0), order); err != nil {
		t.Fatalf("room service order with room number should create: %v", err)
	}
}

func TestUpdateRecomputesTotal(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestOrderService(repo)

	order := takeawayOrder(dayAt(19, 0))
	if err := svc.Create(context.Background(), dayAt(9, 0), order); err != nil {
		t.Fatal(err)
	}

	items := []model.OrderItem{{Name: "Dal Makhani", Price: 260}}
	if err := svc.Update(context.Background(), order.ID, &model.OrderUpdate{Items: &items}); err != nil {
		t.Fatal(err)
	}

	updated, err := svc.GetByID(context.Background(), order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Total != 260 {
		t.Fatalf("expected total 260 after item change, got %v", updated.Total)
	}
}

func TestGetByIDMissing(t *testing.T) {
	svc := newTestOrderService(newFakeOrderRepo())

	_, err := svc.GetByID(context.Background(), "O999999")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
