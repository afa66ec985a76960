package service

import (
	"time"

	"hotelier/pkg/model"
)

// Takeaway pickup runs in fixed half-hour windows over lunch and
// dinner service; 23:59 is the late-night sentinel window.
var takeawaySlotTimes = []string{
	"10:00", "10:30", "11:00", "11:30", "12:00", "12:30", "13:00", "13:30", "14:00", "14:30",
	"19:00", "19:30", "20:00", "20:30", "21:00", "21:30", "22:00", "22:30", "23:00", "23:30",
	"23:59",
}

const (
	SlotDuration     = 30 * time.Minute
	PrepTimePerOrder = 5 * time.Minute
)

// TakeawaySlotTimes returns the fixed slot times in order.
func TakeawaySlotTimes() []string {
	out := make([]string, len(takeawaySlotTimes))
	copy(out, takeawaySlotTimes)
	return out
}

// slotStart anchors a HH:MM slot time onto now's calendar day and
// location.
func slotStart(now time.Time, hhmm string) time.Time {
	t, _ := time.Parse("15:04", hhmm)
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
}

// bucketFor returns the start of the half-hour window containing ts, or
// false when ts falls outside service hours.
func bucketFor(now time.Time, ts time.Time) (time.Time, bool) {
	for _, hhmm := range takeawaySlotTimes {
		start := slotStart(now, hhmm)
		if !ts.Before(start) && ts.Before(start.Add(SlotDuration)) {
			return start, true
		}
	}
	return time.Time{}, false
}

// ComputeTakeawaySlots builds the availability view for now's date.
// now is injected rather than read from the clock so the computation is
// deterministic under test.
//
// Per slot: a past slot has zero availability regardless of load;
// otherwise availability is the capacity minus the non-cancelled orders
// scheduled inside the slot's window. The prep-time estimate is a
// linear backlog heuristic over the previous window's order count.
func ComputeTakeawaySlots(now time.Time, orders []*model.Order, maxPerSlot int) []model.TakeawaySlot {
	slots := make([]model.TakeawaySlot, 0, len(takeawaySlotTimes))

	for _, hhmm := range takeawaySlotTimes {
		start := slotStart(now, hhmm)
		isPast := start.Before(now)

		count := countScheduledIn(orders, start, start.Add(SlotDuration))
		prevCount := countScheduledIn(orders, start.Add(-SlotDuration), start)

		availability := 0
		if !isPast {
			availability = max(0, maxPerSlot-count)
		}

		slots = append(slots, model.TakeawaySlot{
			Time:             hhmm,
			IsPast:           isPast,
			Availability:     availability,
			EstimatedPrepMin: prevCount * int(PrepTimePerOrder.Minutes()),
		})
	}

	return slots
}

func countScheduledIn(orders []*model.Order, start, end time.Time) int {
	count := 0
	for _, o := range orders {
		if o.ScheduledAt == nil || o.Status == model.StatusCancelled {
			continue
		}
		ts := *o.ScheduledAt
		if !ts.Before(start) && ts.Before(end) {
			count++
		}
	}
	return count
}
