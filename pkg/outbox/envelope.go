package outbox

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

// ActorRef identifies who produced the event: a member or a system job.
type ActorRef struct {
	MemberProfileID int64  `json:"member_profile_id,omitempty"`
	System          string `json:"system,omitempty"`
}

// PayloadEnvelope is stored in outbox_events.payload and published verbatim,
// so it names its own event and aggregate for subscribers that only see the
// channel message.
type PayloadEnvelope struct {
	Version       int                       `json:"version"`
	EventID       string                    `json:"event_id"`
	EventType     enums.OutboxEventType     `json:"event_type,omitempty"`
	AggregateType enums.OutboxAggregateType `json:"aggregate_type,omitempty"`
	AggregateID   int64                     `json:"aggregate_id,omitempty"`
	OccurredAt    time.Time                 `json:"occurred_at"`
	Actor         *ActorRef                 `json:"actor,omitempty"`
	Data          json.RawMessage           `json:"data"`
}
