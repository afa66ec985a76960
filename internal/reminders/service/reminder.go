package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	eventserrors "hotelier/internal/events/errors"
	reminderserrors "hotelier/internal/reminders/errors"
	"hotelier/internal/reminders/repository"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/events"
	"hotelier/pkg/mailer"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

// EventStore is the slice of the events repository the sweep needs.
type EventStore interface {
	FindByID(ctx context.Context, id string) (*model.Event, error)
}

type ReminderService interface {
	Create(ctx context.Context, reminder *model.Reminder) error
	GetByID(ctx context.Context, id string) (*model.Reminder, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reminder, int64, error)
	Delete(ctx context.Context, id string) error
	Sweep(ctx context.Context, now time.Time) error
}

type reminderService struct {
	repo      repository.ReminderRepository
	events    EventStore
	mailer    mailer.Mailer
	publisher events.Publisher
	cfg       *config.Config
}

func NewReminderService(
	repo repository.ReminderRepository,
	eventStore EventStore,
	m mailer.Mailer,
	publisher events.Publisher,
	cfg *config.Config,
) ReminderService {
	return &reminderService{
		repo:      repo,
		events:    eventStore,
		mailer:    m,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *reminderService) Create(ctx context.Context, reminder *model.Reminder) error {
	reminder.ID = ""
	reminder.Sent = false

	if err := validation.Struct(reminder); err != nil {
		s.cfg.Log.Warn("Reminder validation failed", "error", err)
		return apperrors.Validation("Reminder validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, reminder); err != nil {
		s.cfg.Log.Error("Failed to create reminder", "event_id", reminder.EventID, "error", err)
		return apperrors.Internal("Failed to create reminder", err)
	}

	s.cfg.Log.Info("Reminder created",
		"id", reminder.ID,
		"event_id", reminder.EventID,
		"remind_at", reminder.RemindAt,
	)
	return nil
}

func (s *reminderService) GetByID(ctx context.Context, id string) (*model.Reminder, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reminder ID cannot be empty")
	}

	reminder, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reminderserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reminder", id)
		}
		return nil, apperrors.Internal("Failed to retrieve reminder", err)
	}
	return reminder, nil
}

func (s *reminderService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reminder, int64, error) {
	var count int64
	var reminders []*model.Reminder
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count reminders", "error", err)
			errCount = apperrors.Internal("Failed to count reminders", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		reminders, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list reminders", "error", err)
			errFind = apperrors.Internal("Failed to retrieve reminders", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return reminders, count, nil
}

func (s *reminderService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reminder ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, reminderserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reminder", id)
		}
		return apperrors.Internal("Failed to delete reminder", err)
	}

	s.cfg.Log.Info("Reminder deleted", "id", id)
	return nil
}

// Sweep sends every due, unsent reminder. A reminder whose event no
// longer exists is left unsent on purpose: it stays in the due set and
// is retried on every subsequent tick, so a dangling event ID surfaces
// in the logs rather than silently dropping the reminder.
func (s *reminderService) Sweep(ctx context.Context, now time.Time) error {
	due, err := s.repo.FindDue(ctx, now)
	if err != nil {
		s.cfg.Log.Error("Reminder sweep failed to load due reminders", "error", err)
		return apperrors.Internal("Failed to load due reminders", err)
	}
	if len(due) == 0 {
		return nil
	}

	s.cfg.Log.Debug("Reminder sweep started", "due", len(due))

	sent := 0
	for _, reminder := range due {
		if err := s.deliver(ctx, reminder); err != nil {
			s.cfg.Log.Warn("Reminder delivery skipped",
				"id", reminder.ID,
				"event_id", reminder.EventID,
				"error", err,
			)
			continue
		}
		sent++
	}

	s.cfg.Log.Info("Reminder sweep finished", "due", len(due), "sent", sent)
	return nil
}

func (s *reminderService) deliver(ctx context.Context, reminder *model.Reminder) error {
	event, err := s.events.FindByID(ctx, reminder.EventID)
	if err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return fmt.Errorf("event %s not found, will retry next sweep", reminder.EventID)
		}
		return fmt.Errorf("event lookup failed: %w", err)
	}

	subject := fmt.Sprintf("Reminder: %s", event.Name)
	body := fmt.Sprintf(
		"<p>This is a reminder for <b>%s</b> at %s on %s.</p><p>%s</p>",
		event.Name,
		event.Venue,
		event.Date.Format("Mon, 02 Jan 2006 15:04"),
		event.Description,
	)

	if err := s.mailer.Send(ctx, reminder.UserEmail, subject, body); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	if err := s.repo.MarkSent(ctx, reminder.ID); err != nil {
		return fmt.Errorf("mark sent failed: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.TypeReminderSent, reminder.ID, reminder); err != nil {
		s.cfg.Log.Warn("Failed to publish reminder event", "id", reminder.ID, "error", err)
	}

	return nil
}
