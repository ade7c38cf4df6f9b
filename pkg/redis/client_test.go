package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/homeservices-backend/pkg/config"
)

func TestLockLifecycle(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	ok, err := client.AcquireLock(ctx, "expire-checkouts", "worker-a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to succeed, ok=%v err=%v", ok, err)
	}
	ok, err = client.AcquireLock(ctx, "expire-checkouts", "worker-b", time.Minute)
	if err != nil || ok {
		t.Fatalf("expected second acquire to fail, ok=%v err=%v", ok, err)
	}

	if err := client.ReleaseLock(ctx, "expire-checkouts", "worker-b"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if _, held := mock.data["hs:lock:expire-checkouts"]; !held {
		t.Fatalf("foreign token must not release the lock")
	}

	if err := client.ReleaseLock(ctx, "expire-checkouts", "worker-a"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	ok, err = client.AcquireLock(ctx, "expire-checkouts", "worker-b", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected acquire after release, ok=%v err=%v", ok, err)
	}
}

func TestGetMissingKey(t *testing.T) {
	client := &Client{store: newMockCmdable()}
	if _, err := client.Get(context.Background(), "absent"); err != Nil {
		t.Fatalf("expected Nil, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("checkout_confirm", "42:abc"); got != "hs:idempotency:checkout_confirm:42:abc" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.LockKey("cron"); got != "hs:lock:cron" {
		t.Fatalf("unexpected lock key %s", got)
	}
	if got := client.IdempotencyKey("", "id"); got != "hs:idempotency:id" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

func TestPublishEventUsesTypedChannel(t *testing.T) {
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.PublishEvent(context.Background(), "checkout_confirmed", []byte(`{"checkout_id":1}`)); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	got := mock.published["hs:events:checkout_confirmed"]
	if len(got) != 1 || got[0] != `{"checkout_id":1}` {
		t.Fatalf("unexpected published messages %v", mock.published)
	}
}

func TestIncrWithTTLSetsExpiryOnce(t *testing.T) {
	mock := newMockCmdable()
	client := &Client{store: mock}
	key := client.RateLimitKey("checkout_confirm:42")
	if key != "hs:rl:checkout_confirm:42" {
		t.Fatalf("unexpected rate limit key %s", key)
	}

	for want := int64(1); want <= 3; want++ {
		got, err := client.IncrWithTTL(context.Background(), key, time.Minute)
		if err != nil {
			t.Fatalf("incr failed: %v", err)
		}
		if got != want {
			t.Fatalf("expected count %d, got %d", want, got)
		}
		if want == 1 {
			if mock.ttls[key] != time.Minute {
				t.Fatalf("expected window ttl on first hit, got %s", mock.ttls[key])
			}
			delete(mock.ttls, key)
		}
	}
	if _, reset := mock.ttls[key]; reset {
		t.Fatalf("ttl must only be set on the first increment")
	}
	if _, err := client.IncrWithTTL(context.Background(), key, 0); err == nil {
		t.Fatal("expected error for zero window")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:pw@cache:6380/2", PoolSize: 7, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.DB != 2 || opts.Password != "pw" {
		t.Fatalf("url settings not applied: %+v", opts)
	}
	if opts.PoolSize != 7 || opts.DialTimeout != time.Second {
		t.Fatalf("pool settings not filled: %+v", opts)
	}

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
	if _, err := optionsFromConfig(config.RedisConfig{URL: "http://nope"}); err == nil {
		t.Fatal("expected error for non-redis url")
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); !errors.Is(err, errNotInitialized) {
		t.Fatalf("expected errNotInitialized, got %v", err)
	}
	var nilClient *Client
	if err := nilClient.Close(); err != nil {
		t.Fatalf("close on nil client: %v", err)
	}
}

type mockCmdable struct {
	data      map[string]string
	published map[string][]string
	ttls      map[string]time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string), published: make(map[string][]string)}
}

func (m *mockCmdable) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	var body string
	switch v := message.(type) {
	case []byte:
		body = string(v)
	default:
		body = fmt.Sprint(v)
	}
	m.published[channel] = append(m.published[channel], body)
	return redis.NewIntResult(1, nil)
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

// Eval understands the lock release and window counter scripts.
func (m *mockCmdable) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	if script == incrScript {
		var n int64
		fmt.Sscan(m.data[keys[0]], &n)
		n++
		m.data[keys[0]] = fmt.Sprint(n)
		if n == 1 {
			if m.ttls == nil {
				m.ttls = map[string]time.Duration{}
			}
			m.ttls[keys[0]] = time.Duration(args[0].(int64)) * time.Millisecond
		}
		return redis.NewCmdResult(n, nil)
	}
	if len(keys) == 1 && len(args) == 1 && m.data[keys[0]] == fmt.Sprint(args[0]) {
		delete(m.data, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}
