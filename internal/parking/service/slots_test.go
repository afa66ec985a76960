package service

import (
	"testing"

	"hotelier/pkg/model"
)

func TestSlotUniverse(t *testing.T) {
	slots := SlotUniverse()
	if len(slots) != 50 {
		t.Fatalf("expected 50 slots, got %d", len(slots))
	}
	if slots[0] != "B1" || slots[19] != "B20" {
		t.Fatalf("two-wheeler range wrong: first=%s last=%s", slots[0], slots[19])
	}
	if slots[20] != "C1" || slots[49] != "C30" {
		t.Fatalf("car range wrong: first=%s last=%s", slots[20], slots[49])
	}
}

func TestValidSlot(t *testing.T) {
	for _, slot := range []string{"B1", "B20", "C1", "C30"} {
		if !ValidSlot(slot) {
			t.Errorf("expected %s to be valid", slot)
		}
	}
	for _, slot := range []string{"B0", "B21", "C0", "C31", "D1", "", "b1"} {
		if ValidSlot(slot) {
			t.Errorf("expected %s to be invalid", slot)
		}
	}
}

func TestPriceTable(t *testing.T) {
	tests := []struct {
		slot     string
		duration string
		want     float64
	}{
		{"B1", model.ParkingDurationFullDay, 500},
		{"B7", model.ParkingDuration12Hours, 375},
		{"B20", model.ParkingDuration6Hours, 250},
		{"C1", model.ParkingDurationFullDay, 1000},
		{"C15", model.ParkingDuration12Hours, 750},
		{"C30", model.ParkingDuration6Hours, 500},
	}

	for _, tt := range tests {
		got, err := Price(tt.slot, tt.duration)
		if err != nil {
			t.Errorf("Price(%s, %s): %v", tt.slot, tt.duration, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Price(%s, %s) = %v, want %v", tt.slot, tt.duration, got, tt.want)
		}
	}
}

func TestPriceRejectsUnknownInputs(t *testing.T) {
	if _, err := Price("D1", model.ParkingDurationFullDay); err == nil {
		t.Error("expected error for unknown slot")
	}
	if _, err := Price("B1", "2 hours"); err == nil {
		t.Error("expected error for unknown duration")
	}
}
