package orders

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

const scheduleDateLayout = "2006-01-02"

// SlotValue is a time slot as sent by clients: a number or a string.
type SlotValue string

func (v *SlotValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = SlotValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = SlotValue(n.String())
	return nil
}

// ScheduleInput accepts the slot under either "time_slot" or "time".
type ScheduleInput struct {
	Date     string    `json:"date"`
	TimeSlot SlotValue `json:"time_slot"`
	Time     SlotValue `json:"time"`
}

// ParseSchedule validates a schedule and returns its canonical stored form.
func ParseSchedule(in *ScheduleInput) (types.Schedule, error) {
	if in == nil {
		return types.Schedule{}, pkgerrors.Field("schedule", "is required")
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		return types.Schedule{}, pkgerrors.Field("schedule.date", "is required")
	}
	parsed, err := time.Parse(scheduleDateLayout, date)
	if err != nil || parsed.Format(scheduleDateLayout) != date {
		return types.Schedule{}, pkgerrors.Field("schedule.date", "must be a date in YYYY-MM-DD format")
	}

	key, raw := "schedule.time_slot", in.TimeSlot
	if strings.TrimSpace(string(raw)) == "" {
		key, raw = "schedule.time", in.Time
	}
	if strings.TrimSpace(string(raw)) == "" {
		return types.Schedule{}, pkgerrors.Field("schedule.time_slot", "is required")
	}
	slot, err := enums.ParseTimeSlot(string(raw))
	if err != nil {
		return types.Schedule{}, pkgerrors.Field(key, "must be one of 1, 2, 3 or a known time slot label")
	}
	return types.Schedule{Date: date, TimeSlot: slot.Label(), TimeSlotID: int(slot)}, nil
}
