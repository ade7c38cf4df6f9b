package types

// Schedule is a service visit date (YYYY-MM-DD) and its canonical time slot label.
type Schedule struct {
	Date       string `json:"date"`
	TimeSlot   string `json:"time_slot"`
	TimeSlotID int    `json:"time_slot_id,omitempty"`
}
