package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	eventserrors "hotelier/internal/events/errors"
	reminderserrors "hotelier/internal/reminders/errors"
	"hotelier/pkg/config"
	"hotelier/pkg/events"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

type fakeReminderRepo struct {
	byID map[string]*model.Reminder
	next int
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{byID: make(map[string]*model.Reminder)}
}

func (r *fakeReminderRepo) Create(_ context.Context, reminder *model.Reminder) error {
	r.next++
	reminder.ID = fmt.Sprintf("rem-%03d", r.next)
	copied := *reminder
	r.byID[reminder.ID] = &copied
	return nil
}

func (r *fakeReminderRepo) FindByID(_ context.Context, id string) (*model.Reminder, error) {
	rem, ok := r.byID[id]
	if !ok {
		return nil, reminderserrors.ErrNotFound
	}
	return rem, nil
}

func (r *fakeReminderRepo) FindAll(_ context.Context, _ int, _ int64) ([]*model.Reminder, error) {
	var out []*model.Reminder
	for _, rem := range r.byID {
		out = append(out, rem)
	}
	return out, nil
}

func (r *fakeReminderRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *fakeReminderRepo) FindDue(_ context.Context, now time.Time) ([]*model.Reminder, error) {
	var due []*model.Reminder
	for _, rem := range r.byID {
		if !rem.Sent && !rem.RemindAt.After(now) {
			due = append(due, rem)
		}
	}
	return due, nil
}

func (r *fakeReminderRepo) MarkSent(_ context.Context, id string) error {
	rem, ok := r.byID[id]
	if !ok {
		return reminderserrors.ErrNotFound
	}
	rem.Sent = true
	return nil
}

func (r *fakeReminderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return reminderserrors.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeReminderRepo) EnsureIndexes(context.Context) error {
	return nil
}

type fakeEventStore struct {
	events map[string]*model.Event
}

func (s *fakeEventStore) FindByID(_ context.Context, id string) (*model.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, eventserrors.ErrNotFound
	}
	return e, nil
}

type recordingMailer struct {
	sent []string
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, to)
	return nil
}

func newTestReminderService(repo *fakeReminderRepo, store *fakeEventStore, mail *recordingMailer) ReminderService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
	return NewReminderService(repo, store, mail, events.NoopPublisher{}, cfg)
}

func seedReminder(t *testing.T, svc ReminderService, eventID string, remindAt time.Time) *model.Reminder {
	t.Helper()
	reminder := &model.Reminder{
		UserEmail: "guest@example.com",
		EventID:   eventID,
		RemindAt:  remindAt,
	}
	if err := svc.Create(context.Background(), reminder); err != nil {
		t.Fatal(err)
	}
	return reminder
}

func wineTasting() *fakeEventStore {
	return &fakeEventStore{events: map[string]*model.Event{
		"EV000001": {
			ID:    "EV000001",
			Name:  "Wine Tasting",
			Venue: "Cellar Bar",
			Date:  time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC),
		},
	}}
}

func TestSweepSendsDueReminders(t *testing.T) {
	repo := newFakeReminderRepo()
	mail := &recordingMailer{}
	svc := newTestReminderService(repo, wineTasting(), mail)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	due := seedReminder(t, svc, "EV000001", now.Add(-time.Minute))
	future := seedReminder(t, svc, "EV000001", now.Add(time.Hour))

	if err := svc.Sweep(context.Background(), now); err != nil {
		t.Fatal(err)
	}

	if len(mail.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mail.sent))
	}
	if got, _ := repo.FindByID(context.Background(), due.ID); !got.Sent {
		t.Error("due reminder not marked sent")
	}
	if got, _ := repo.FindByID(context.Background(), future.ID); got.Sent {
		t.Error("future reminder marked sent")
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	repo := newFakeReminderRepo()
	mail := &recordingMailer{}
	svc := newTestReminderService(repo, wineTasting(), mail)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	seedReminder(t, svc, "EV000001", now.Add(-time.Minute))

	if err := svc.Sweep(context.Background(), now); err != nil {
		t.Fatal(err)
	}
	if err := svc.Sweep(context.Background(), now.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	if len(mail.sent) != 1 {
		t.Fatalf("second sweep resent: %d emails total", len(mail.sent))
	}
}

func TestSweepMissingEventRetriesForever(t *testing.T) {
	repo := newFakeReminderRepo()
	mail := &recordingMailer{}
	svc := newTestReminderService(repo, &fakeEventStore{events: map[string]*model.Event{}}, mail)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	dangling := seedReminder(t, svc, "EV404404", now.Add(-time.Minute))

	if err := svc.Sweep(context.Background(), now); err != nil {
		t.Fatal(err)
	}

	if len(mail.sent) != 0 {
		t.Fatalf("expected no email for a dangling reminder, got %d", len(mail.sent))
	}
	got, err := repo.FindByID(context.Background(), dangling.ID)
	if err != nil {
		t.Fatal("dangling reminder was removed; it must stay for retry")
	}
	if got.Sent {
		t.Fatal("dangling reminder marked sent")
	}

	// Still in the due set for the next tick.
	due, err := repo.FindDue(context.Background(), now.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 due reminder after failed sweep, got %d", len(due))
	}
}

func TestSweepMailerFailureLeavesUnsent(t *testing.T) {
	repo := newFakeReminderRepo()
	mail := &recordingMailer{fail: true}
	svc := newTestReminderService(repo, wineTasting(), mail)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	reminder := seedReminder(t, svc, "EV000001", now.Add(-time.Minute))

	if err := svc.Sweep(context.Background(), now); err != nil {
		t.Fatal(err)
	}

	if got, _ := repo.FindByID(context.Background(), reminder.ID); got.Sent {
		t.Fatal("reminder marked sent despite mailer failure")
	}

	// Once the mailer recovers, the next tick delivers it.
	mail.fail = false
	if err := svc.Sweep(context.Background(), now.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if got, _ := repo.FindByID(context.Background(), reminder.ID); !got.Sent {
		t.Fatal("reminder not sent after mailer recovered")
	}
}
