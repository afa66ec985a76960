package service

import (
	"fmt"

	parkingerrors "hotelier/internal/parking/errors"
	"hotelier/pkg/model"
)

// The physical slot universe: B1..B20 for two-wheelers, C1..C30 for
// cars. 50 slots total.
const (
	twoWheelerSlots = 20
	carSlots        = 30

	twoWheelerBasePrice = 500.0
	carBasePrice        = 1000.0
)

var durationMultipliers = map[string]float64{
	model.ParkingDurationFullDay: 1.0,
	model.ParkingDuration12Hours: 0.75,
	model.ParkingDuration6Hours:  0.5,
}

// SlotUniverse returns all 50 slot identifiers, B-slots first, in
// ascending numeric order.
func SlotUniverse() []string {
	slots := make([]string, 0, twoWheelerSlots+carSlots)
	for i := 1; i <= twoWheelerSlots; i++ {
		slots = append(slots, fmt.Sprintf("B%d", i))
	}
	for i := 1; i <= carSlots; i++ {
		slots = append(slots, fmt.Sprintf("C%d", i))
	}
	return slots
}

var slotSet = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, s := range SlotUniverse() {
		set[s] = struct{}{}
	}
	return set
}()

func ValidSlot(slot string) bool {
	_, ok := slotSet[slot]
	return ok
}

// Price is a pure function of the slot-type prefix and duration tier.
func Price(slot, duration string) (float64, error) {
	if !ValidSlot(slot) {
		return 0, fmt.Errorf("%w: %s", parkingerrors.ErrUnknownSlot, slot)
	}

	multiplier, ok := durationMultipliers[duration]
	if !ok {
		return 0, fmt.Errorf("unknown duration tier: %s", duration)
	}

	base := twoWheelerBasePrice
	if slot[0] == 'C' {
		base = carBasePrice
	}
	return base * multiplier, nil
}
