package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/internal/cart"
	"github.com/angelmondragon/homeservices-backend/internal/checkout"
	"github.com/angelmondragon/homeservices-backend/internal/lineitem"
	"github.com/angelmondragon/homeservices-backend/pkg/auth"
	"github.com/angelmondragon/homeservices-backend/pkg/config"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
	"github.com/angelmondragon/homeservices-backend/pkg/metrics"
	"github.com/angelmondragon/homeservices-backend/pkg/pagination"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type memoryRedis struct {
	mu     sync.Mutex
	values map[string]string
	counts map[string]int64
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{values: map[string]string{}, counts: map[string]int64{}}
}

func (m *memoryRedis) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = fmt.Sprint(value)
	return true, nil
}

func (m *memoryRedis) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryRedis) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func (m *memoryRedis) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memoryRedis) RateLimitKey(scope string) string {
	return "rl:" + scope
}

func (m *memoryRedis) Ping(context.Context) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) AddToCart(context.Context, int64, lineitem.OrderRef) (lineitem.LineItem, error) {
	return lineitem.LineItem{}, nil
}

func (stubCartService) RemoveFromCart(context.Context, int64, lineitem.RefSet) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCartService) GetCart(_ context.Context, memberProfileID int64) (*cart.View, error) {
	return &cart.View{ID: 1, MemberProfileID: memberProfileID}, nil
}

func (stubCartService) EvictOrders(context.Context, *gorm.DB, int64, lineitem.RefSet) error {
	return nil
}

func (stubCartService) Mutate(context.Context, *gorm.DB, int64, cart.MutateFunc) (*cart.View, error) {
	return &cart.View{}, nil
}

type countingCheckoutService struct {
	mu       sync.Mutex
	confirms int
}

func (s *countingCheckoutService) PreviewCheckout(context.Context, int64, checkout.PreviewInput) (*checkout.Preview, error) {
	return &checkout.Preview{}, nil
}

func (s *countingCheckoutService) ConfirmCheckout(_ context.Context, memberProfileID int64, _ checkout.ConfirmInput) (*checkout.CheckoutDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirms++
	return &checkout.CheckoutDTO{ID: int64(s.confirms), MemberProfileID: memberProfileID, PaymentStatus: enums.PaymentStatusWaiting}, nil
}

func (s *countingCheckoutService) GetPaymentStatus(context.Context, int64, int64) (*checkout.PaymentView, error) {
	return &checkout.PaymentView{}, nil
}

func (s *countingCheckoutService) GetCheckout(context.Context, int64, int64) (*checkout.CheckoutDTO, error) {
	return &checkout.CheckoutDTO{}, nil
}

func (s *countingCheckoutService) ListCheckouts(_ context.Context, _ int64, params pagination.Params) (types.Page[checkout.CheckoutDTO], error) {
	return pagination.NewPage([]checkout.CheckoutDTO{}, params, 0), nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:        config.AppConfig{Env: "test"},
		JWT:        config.JWTConfig{Secret: "secret", Issuer: "homeservices", ExpirationMinutes: 60},
		Redis:      config.RedisConfig{IdempotencyTTL: time.Hour},
		HTTP:       config.HTTPConfig{CORSOrigins: []string{"http://localhost:3000"}, RateLimitWindow: time.Minute, RateLimitMax: 2},
		Pagination: config.PaginationConfig{PageSize: 10, MaxPageSize: 100},
	}
}

func newTestRouter(t *testing.T, checkoutSvc checkout.Service) (http.Handler, *config.Config) {
	t.Helper()
	cfg := testConfig()
	reg := prometheus.NewRegistry()
	metrics.NewCheckoutMetrics(reg).IncConfirmed("QRIS")
	router := NewRouter(Dependencies{
		Config:          cfg,
		Logger:          logger.Nop(),
		DB:              stubPinger{},
		Redis:           newMemoryRedis(),
		MetricsGatherer: reg,
		CartService:     stubCartService{},
		CheckoutService: checkoutSvc,
	})
	return router, cfg
}

func bearer(t *testing.T, cfg *config.Config, member int64) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{MemberProfileID: member})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	router, _ := newTestRouter(t, &countingCheckoutService{})

	for _, path := range []string{"/health/live", "/health/ready", "/api/public/ping"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "checkout_confirmed_total") {
		t.Fatalf("expected checkout counter in metrics output, got %d", resp.Code)
	}
}

func TestMemberRoutesRequireToken(t *testing.T) {
	router, cfg := newTestRouter(t, &countingCheckoutService{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", bearer(t, cfg, 77))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"member_profile_id":77`) {
		t.Fatalf("expected member from token, got %s", resp.Body.String())
	}
}

func TestConfirmReplaysIdempotentRequest(t *testing.T) {
	svc := &countingCheckoutService{}
	router, cfg := newTestRouter(t, svc)
	token := bearer(t, cfg, 5)
	body := `{"product_order_ids":[1],"payment_method":"QRIS"}`

	var bodies []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/confirm", strings.NewReader(body))
		req.Header.Set("Authorization", token)
		req.Header.Set("Idempotency-Key", "confirm-1")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201 got %d: %s", i, resp.Code, resp.Body.String())
		}
		bodies = append(bodies, resp.Body.String())
	}

	if svc.confirms != 1 {
		t.Fatalf("expected one confirmation, got %d", svc.confirms)
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("replay differs:\n%s\n%s", bodies[0], bodies[1])
	}
}

func TestConfirmIsRateLimited(t *testing.T) {
	router, cfg := newTestRouter(t, &countingCheckoutService{})
	token := bearer(t, cfg, 6)

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/confirm", strings.NewReader(`{"product_order_ids":[1],"payment_method":"QRIS"}`))
		req.Header.Set("Authorization", token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		last = resp.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third confirm, got %d", last)
	}
}
