package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	orderserrors "hotelier/internal/orders/errors"
	"hotelier/internal/orders/repository"
	"hotelier/internal/orders/validator"
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

type OrderService interface {
	Create(ctx context.Context, now time.Time, order *model.Order) error
	TakeawaySlots(ctx context.Context, now time.Time) ([]model.TakeawaySlot, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetAll(ctx context.Context, filter repository.Filter, limit int, offset int64) ([]*model.Order, int64, error)
	Update(ctx context.Context, id string, updates *model.OrderUpdate) error
	Delete(ctx context.Context, id string) error
}

type orderService struct {
	repo      repository.OrderRepository
	lockRepo  mongotx.LockRepository
	validator *validator.OrderValidator
	idgen     *identifier.Generator
	publisher events.Publisher
	cfg       *config.Config
}

func NewOrderService(
	repo repository.OrderRepository,
	lockRepo mongotx.LockRepository,
	orderValidator *validator.OrderValidator,
	idgen *identifier.Generator,
	publisher events.Publisher,
	cfg *config.Config,
) OrderService {
	return &orderService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: orderValidator,
		idgen:     idgen,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create places an order. Takeaway and delivery orders are capacity
// checked against their half-hour pickup window before insert; now is
// injected so the check is deterministic under test.
func (s *orderService) Create(ctx context.Context, now time.Time, order *model.Order) error {
	if order.Status == "" {
		order.Status = model.StatusPending
	}
	order.Total = itemsTotal(order.Items)

	if err := s.validator.Validate(order); err != nil {
		s.cfg.Log.Warn("Order validation failed", "error", err)
		return apperrors.Validation("Order validation failed", map[string]any{"error": err.Error()})
	}

	if order.ScheduledAt != nil && (order.Type == model.OrderTypeTakeaway || order.Type == model.OrderTypeDelivery) {
		release, err := s.checkSlotCapacity(ctx, now, order)
		if err != nil {
			return err
		}
		defer release()
	}

	if err := s.createWithFreshID(ctx, order); err != nil {
		s.cfg.Log.Error("Failed to create order", "type", order.Type, "error", err)
		return err
	}

	if err := s.publisher.Publish(ctx, events.TypeOrderCreated, order.ID, order); err != nil {
		s.cfg.Log.Warn("Failed to publish order event", "id", order.ID, "error", err)
	}

	s.cfg.Log.Info("Order created",
		"id", order.ID,
		"type", order.Type,
		"items", len(order.Items),
		"total", order.Total,
	)
	return nil
}

// checkSlotCapacity buckets the pickup time into its half-hour window
// and rejects when the window already holds the capacity ceiling. The
// same bucketing backs the availability view, so the two checks agree.
func (s *orderService) checkSlotCapacity(ctx context.Context, now time.Time, order *model.Order) (func(), error) {
	ts := *order.ScheduledAt
	if ts.Before(now) {
		return nil, apperrors.InvalidInput("scheduled_at cannot be in the past")
	}

	bucket, ok := bucketFor(ts, ts)
	if !ok {
		return nil, apperrors.InvalidInput("scheduled_at falls outside takeaway service hours")
	}

	lockID := fmt.Sprintf("takeaway_%s", bucket.Format("2006-01-02_15:04"))
	if err := s.lockRepo.Acquire(ctx, lockID, lockTTL); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.Conflict("This pickup slot is currently being booked by another request. Please try again.")
		}
		return nil, apperrors.Internal("Failed to acquire slot lock", err)
	}
	release := func() {
		if err := s.lockRepo.Release(ctx, lockID); err != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", err)
		}
	}

	count, err := s.repo.CountScheduledBetween(ctx, order.Type, bucket, bucket.Add(SlotDuration))
	if err != nil {
		release()
		return nil, apperrors.Internal("Failed to check slot capacity", err)
	}
	if count >= int64(s.cfg.TakeawayMaxOrdersPerSlot) {
		release()
		return nil, apperrors.Conflict(fmt.Sprintf(
			"Pickup slot %s is fully booked", bucket.Format("15:04"),
		))
	}

	return release, nil
}

func (s *orderService) createWithFreshID(ctx context.Context, order *model.Order) error {
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id, err := s.idgen.Next(ctx, identifier.PrefixOrder, s.repo)
		if err != nil {
			return apperrors.Internal("Failed to generate order ID", err)
		}
		order.ID = id

		err = s.repo.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return apperrors.Internal("Failed to create order", err)
		}
		s.cfg.Log.Warn("Order ID collided, regenerating", "id", id, "attempt", attempt)
	}
	return apperrors.Internal("Failed to allocate a unique order ID", nil)
}

// TakeawaySlots reports availability and estimated prep delay for each
// fixed pickup window of now's date.
func (s *orderService) TakeawaySlots(ctx context.Context, now time.Time) ([]model.TakeawaySlot, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	orders, err := s.repo.FindScheduledBetween(ctx, model.OrderTypeTakeaway, dayStart, dayEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load scheduled takeaway orders", "error", err)
		return nil, apperrors.Internal("Failed to compute takeaway slots", err)
	}

	return ComputeTakeawaySlots(now, orders, s.cfg.TakeawayMaxOrdersPerSlot), nil
}

func (s *orderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Order ID cannot be empty")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Order", id)
		}
		return nil, apperrors.Internal("Failed to retrieve order", err)
	}
	return order, nil
}

func (s *orderService) GetAll(ctx context.Context, filter repository.Filter, limit int, offset int64) ([]*model.Order, int64, error) {
	var count int64
	var orders []*model.Order
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count orders", "error", err)
			errCount = apperrors.Internal("Failed to count orders", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		orders, err = s.repo.FindAll(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list orders", "error", err)
			errFind = apperrors.Internal("Failed to retrieve orders", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return orders, count, nil
}

func (s *orderService) Update(ctx context.Context, id string, updates *model.OrderUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Order ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Order", id)
		}
		return apperrors.Internal("Failed to check order existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Order update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	statusChanged := updates.Status != "" && updates.Status != existing.Status
	merged := s.mergeOrderUpdates(existing, updates)

	if err := s.repo.Update(ctx, id, merged); err != nil {
		return apperrors.Internal("Failed to update order", err)
	}

	if statusChanged {
		if err := s.publisher.Publish(ctx, events.TypeOrderStatusChanged, id, merged); err != nil {
			s.cfg.Log.Warn("Failed to publish order status event", "id", id, "error", err)
		}
	}

	s.cfg.Log.Info("Order updated", "id", id, "status", merged.Status)
	return nil
}

func (s *orderService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Order ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, orderserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Order", id)
		}
		return apperrors.Internal("Failed to delete order", err)
	}

	s.cfg.Log.Info("Order deleted", "id", id)
	return nil
}

func (s *orderService) mergeOrderUpdates(existing *model.Order, updates *model.OrderUpdate) *model.Order {
	merged := *existing

	if updates.Items != nil {
		merged.Items = *updates.Items
		merged.Total = itemsTotal(merged.Items)
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.ScheduledAt != nil {
		merged.ScheduledAt = updates.ScheduledAt
	}

	return &merged
}

func itemsTotal(items []model.OrderItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price
	}
	return total
}
