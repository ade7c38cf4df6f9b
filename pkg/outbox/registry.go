package outbox

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	"github.com/angelmondragon/homeservices-backend/pkg/outbox/payloads"
)

type decoderFunc func(payload json.RawMessage) (interface{}, error)

type registryKey struct {
	eventType enums.OutboxEventType
	version   int
}

type DecoderRegistry struct {
	mtx      sync.RWMutex
	registry map[registryKey]decoderFunc
}

func NewDecoderRegistry() *DecoderRegistry {
	return &DecoderRegistry{registry: make(map[registryKey]decoderFunc)}
}

func (r *DecoderRegistry) Register(eventType enums.OutboxEventType, version int, decoder decoderFunc) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.registry[registryKey{eventType: eventType, version: version}] = decoder
}

func (r *DecoderRegistry) Decode(eventType enums.OutboxEventType, version int, payload json.RawMessage) (interface{}, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	if decoder, ok := r.registry[registryKey{eventType: eventType, version: version}]; ok {
		return decoder(payload)
	}
	return nil, fmt.Errorf("decoder not registered for %s@v%d", eventType, version)
}

func decodeInto[T any](payload json.RawMessage) (interface{}, error) {
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NewDefaultRegistry registers decoders for every event this service emits.
func NewDefaultRegistry() *DecoderRegistry {
	r := NewDecoderRegistry()
	r.Register(enums.EventCheckoutConfirmed, 1, decodeInto[payloads.CheckoutConfirmedEvent])
	r.Register(enums.EventCheckoutExpired, 1, decodeInto[payloads.CheckoutExpiredEvent])
	r.Register(enums.EventOrderDeleted, 1, decodeInto[payloads.OrderDeletedEvent])
	r.Register(enums.EventVoucherRedeemed, 1, decodeInto[payloads.VoucherRedeemedEvent])
	return r
}

// DecodeEnvelope unpacks a stored row payload and its typed data.
func (r *DecoderRegistry) DecodeEnvelope(eventType enums.OutboxEventType, raw json.RawMessage) (PayloadEnvelope, interface{}, error) {
	var env PayloadEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, nil, err
	}
	if env.EventType != "" && env.EventType != eventType {
		return env, nil, fmt.Errorf("envelope names %s but row is %s", env.EventType, eventType)
	}
	data, err := r.Decode(eventType, env.Version, env.Data)
	return env, data, err
}
