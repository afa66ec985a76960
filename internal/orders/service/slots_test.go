package service

import (
	"testing"
	"time"

	"hotelier/pkg/model"
)

func dayAt(hour, minute int) time.Time {
	return time.Date(2026, 9, 1, hour, minute, 0, 0, time.UTC)
}

func scheduledOrder(at time.Time, status string) *model.Order {
	return &model.Order{
		Type:        model.OrderTypeTakeaway,
		Status:      status,
		ScheduledAt: &at,
	}
}

func slotByTime(t *testing.T, slots []model.TakeawaySlot, hhmm string) model.TakeawaySlot {
	t.Helper()
	for _, s := range slots {
		if s.Time == hhmm {
			return s
		}
	}
	t.Fatalf("slot %s not found", hhmm)
	return model.TakeawaySlot{}
}

func TestTakeawaySlotTimes(t *testing.T) {
	times := TakeawaySlotTimes()
	if len(times) != 21 {
		t.Fatalf("expected 21 slots, got %d", len(times))
	}
	if times[0] != "10:00" || times[9] != "14:30" {
		t.Fatalf("lunch range wrong: first=%s last=%s", times[0], times[9])
	}
	if times[10] != "19:00" || times[19] != "23:30" {
		t.Fatalf("dinner range wrong: first=%s last=%s", times[10], times[19])
	}
	if times[20] != "23:59" {
		t.Fatalf("expected 23:59 sentinel, got %s", times[20])
	}
}

func TestComputeTakeawaySlotsEmpty(t *testing.T) {
	now := dayAt(9, 0)
	slots := ComputeTakeawaySlots(now, nil, 5)

	if len(slots) != 21 {
		t.Fatalf("expected 21 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.IsPast {
			t.Errorf("slot %s marked past at 09:00", s.Time)
		}
		if s.Availability != 5 {
			t.Errorf("slot %s availability = %d, want 5", s.Time, s.Availability)
		}
		if s.EstimatedPrepMin != 0 {
			t.Errorf("slot %s prep = %d, want 0", s.Time, s.EstimatedPrepMin)
		}
	}
}

func TestComputeTakeawaySlotsFullSlot(t *testing.T) {
	now := dayAt(9, 0)
	var orders []*model.Order
	for i := 0; i < 5; i++ {
		orders = append(orders, scheduledOrder(dayAt(19, 0), model.StatusPending))
	}

	slots := ComputeTakeawaySlots(now, orders, 5)

	if got := slotByTime(t, slots, "19:00").Availability; got != 0 {
		t.Errorf("19:00 availability = %d, want 0", got)
	}
	if got := slotByTime(t, slots, "19:30").Availability; got != 5 {
		t.Errorf("19:30 availability = %d, want 5", got)
	}
}

func TestComputeTakeawaySlotsCancelledExcluded(t *testing.T) {
	now := dayAt(9, 0)
	orders := []*model.Order{
		scheduledOrder(dayAt(12, 0), model.StatusPending),
		scheduledOrder(dayAt(12, 0), model.StatusCancelled),
	}

	slots := ComputeTakeawaySlots(now, orders, 5)
	if got := slotByTime(t, slots, "12:00").Availability; got != 4 {
		t.Errorf("12:00 availability = %d, want 4 (cancelled order must not count)", got)
	}
}

func TestComputeTakeawaySlotsExactTimeDuplicatesCount(t *testing.T) {
	now := dayAt(9, 0)
	orders := []*model.Order{
		scheduledOrder(dayAt(13, 15), model.StatusPending),
		scheduledOrder(dayAt(13, 15), model.StatusPending),
		scheduledOrder(dayAt(13, 15), model.StatusPending),
	}

	slots := ComputeTakeawaySlots(now, orders, 5)
	if got := slotByTime(t, slots, "13:00").Availability; got != 2 {
		t.Errorf("13:00 availability = %d, want 2", got)
	}
}

func TestComputeTakeawaySlotsPastSlots(t *testing.T) {
	now := dayAt(13, 10)
	slots := ComputeTakeawaySlots(now, nil, 5)

	past := slotByTime(t, slots, "10:00")
	if !past.IsPast {
		t.Error("10:00 should be past at 13:10")
	}
	if past.Availability != 0 {
		t.Errorf("past slot availability = %d, want 0 regardless of load", past.Availability)
	}

	// 13:00 started before now, so it counts as past too.
	if !slotByTime(t, slots, "13:00").IsPast {
		t.Error("13:00 should be past at 13:10")
	}
	if slotByTime(t, slots, "13:30").IsPast {
		t.Error("13:30 should not be past at 13:10")
	}
}

func TestComputeTakeawaySlotsPrepEstimate(t *testing.T) {
	now := dayAt(9, 0)
	orders := []*model.Order{
		scheduledOrder(dayAt(19, 0), model.StatusPending),
		scheduledOrder(dayAt(19, 10), model.StatusPending),
		scheduledOrder(dayAt(19, 20), model.StatusPending),
	}

	slots := ComputeTakeawaySlots(now, orders, 5)

	// Prep estimate reflects the backlog of the previous window.
	if got := slotByTime(t, slots, "19:30").EstimatedPrepMin; got != 15 {
		t.Errorf("19:30 prep = %d, want 15", got)
	}
	if got := slotByTime(t, slots, "19:00").EstimatedPrepMin; got != 0 {
		t.Errorf("19:00 prep = %d, want 0", got)
	}
}

func TestBucketFor(t *testing.T) {
	ts := dayAt(19, 17)
	bucket, ok := bucketFor(ts, ts)
	if !ok {
		t.Fatal("19:17 should land in a service window")
	}
	if bucket.Hour() != 19 || bucket.Minute() != 0 {
		t.Fatalf("expected bucket 19:00, got %02d:%02d", bucket.Hour(), bucket.Minute())
	}

	outside := dayAt(16, 0)
	if _, ok := bucketFor(outside, outside); ok {
		t.Fatal("16:00 is outside service hours")
	}
}
