package enums

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TimeSlot is a fixed service visit window keyed by its public numeric id.
type TimeSlot int

const (
	TimeSlotMorning   TimeSlot = 1
	TimeSlotAfternoon TimeSlot = 2
	TimeSlotNight     TimeSlot = 3
)

var timeSlotLabels = map[TimeSlot]string{
	TimeSlotMorning:   "Pagi (08:00 - 12:00)",
	TimeSlotAfternoon: "Siang (12:00 - 16:00)",
	TimeSlotNight:     "Malam (16:00 - 20:00)",
}

var timeSlotNames = map[TimeSlot]string{
	TimeSlotMorning:   "MORNING",
	TimeSlotAfternoon: "AFTERNOON",
	TimeSlotNight:     "NIGHT",
}

var orderedTimeSlots = []TimeSlot{TimeSlotMorning, TimeSlotAfternoon, TimeSlotNight}

// Label is the display label stored on schedules.
func (t TimeSlot) Label() string {
	return timeSlotLabels[t]
}

// String returns MORNING, AFTERNOON or NIGHT.
func (t TimeSlot) String() string {
	if name, ok := timeSlotNames[t]; ok {
		return name
	}
	return strconv.Itoa(int(t))
}

func (t TimeSlot) IsValid() bool {
	_, ok := timeSlotLabels[t]
	return ok
}

// ParseTimeSlot resolves a numeric key, an exact label, a label with any
// whitespace removed, or the slot name.
func ParseTimeSlot(value string) (TimeSlot, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("time slot is empty")
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		if slot := TimeSlot(n); slot.IsValid() {
			return slot, nil
		}
		return 0, fmt.Errorf("invalid time slot %q", value)
	}
	for _, slot := range orderedTimeSlots {
		if timeSlotLabels[slot] == value {
			return slot, nil
		}
	}
	compact := stripSpaces(value)
	for _, slot := range orderedTimeSlots {
		if stripSpaces(timeSlotLabels[slot]) == compact {
			return slot, nil
		}
	}
	for _, slot := range orderedTimeSlots {
		if strings.EqualFold(timeSlotNames[slot], trimmed) {
			return slot, nil
		}
	}
	return 0, fmt.Errorf("invalid time slot %q", value)
}

func stripSpaces(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}
