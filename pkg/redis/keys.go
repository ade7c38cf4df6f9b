package redis

import "strings"

// Every key and channel lives under hs:<kind>:...
const (
	keyNamespace = "hs"

	kindIdempotency = "idempotency"
	kindLock        = "lock"
	kindEvents      = "events"
	kindRateLimit   = "rl"
)

func namespaced(kind string, parts ...string) string {
	var b strings.Builder
	b.WriteString(keyNamespace)
	b.WriteByte(':')
	b.WriteString(kind)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}

func (c *Client) IdempotencyKey(scope, id string) string {
	return namespaced(kindIdempotency, scope, id)
}

func (c *Client) LockKey(name string) string { return namespaced(kindLock, name) }

func (c *Client) RateLimitKey(scope string) string { return namespaced(kindRateLimit, scope) }

// EventChannel is the pub/sub channel the outbox publisher uses per event type.
func (c *Client) EventChannel(eventType string) string { return namespaced(kindEvents, eventType) }
