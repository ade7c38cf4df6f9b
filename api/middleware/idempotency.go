package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/homeservices-backend/api/responses"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/homeservices-backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	defaultIdempotencyTTL = 24 * time.Hour
	// confirmIdempotencyTTL applies to checkout confirmation when no TTL is configured.
	confirmIdempotencyTTL = 7 * 24 * time.Hour
	// pendingTTL bounds how long a crashed request can block its key.
	pendingTTL = 2 * time.Minute
)

// idempotentRoute matches a chi route pattern. Long routes keep their
// record for the configured confirm TTL instead of the default.
type idempotentRoute struct {
	method string
	path   string
	prefix bool
	long   bool
}

func (r idempotentRoute) matches(method, pattern string) bool {
	if r.method != method {
		return false
	}
	if r.prefix {
		return strings.HasPrefix(pattern, r.path)
	}
	return pattern == r.path
}

var idempotentRoutes = []idempotentRoute{
	{method: http.MethodPost, path: "/api/v1/checkout/confirm", long: true},
	{method: http.MethodPost, path: "/api/v1/orders/", prefix: true},
	{method: http.MethodPost, path: "/api/v1/cart/items"},
	{method: http.MethodPost, path: "/api/v1/quotes/installation/preview"},
}

// storedResponse is what lives under an idempotency key. Pending marks a
// request that has reserved the key but not finished.
type storedResponse struct {
	Pending     bool   `json:"pending,omitempty"`
	RequestHash string `json:"request_hash"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

func (s storedResponse) encode() string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

func (s storedResponse) replay(w http.ResponseWriter) {
	if s.ContentType != "" {
		w.Header().Set("Content-Type", s.ContentType)
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(s.Status)
	_, _ = w.Write(s.Body)
}

// Idempotency replays the stored response of a write when the client resends
// the same Idempotency-Key. Requests without the header pass through.
func Idempotency(store pkgredis.IdempotencyStore, longTTL time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if longTTL <= 0 {
		longTTL = confirmIdempotencyTTL
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			ttl, covered := routeTTL(r.Method, routePattern(r), longTTL)
			if store == nil || clientKey == "" || !covered {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			fail := func(err error) { responses.WriteError(ctx, logg, w, err) }

			body, err := io.ReadAll(r.Body)
			if err != nil {
				fail(pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := hashBody(body)
			key := store.IdempotencyKey(idempotencyScope(r), clientKey)

			reserved, err := store.SetNX(ctx, key, storedResponse{Pending: true, RequestHash: hash}.encode(), pendingTTL)
			if err != nil {
				fail(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}
			if !reserved {
				existing, err := loadStored(r, store, key)
				switch {
				case err != nil:
					fail(err)
				case existing.RequestHash != hash:
					fail(pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
				case existing.Pending:
					fail(pkgerrors.New(pkgerrors.CodeConflict, "a request with this idempotency key is still in progress"))
				default:
					existing.replay(w)
				}
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			// 5xx releases the key so the client can retry
			if capture.statusCode() >= http.StatusInternalServerError {
				if err := store.Del(ctx, key); err != nil {
					logg.Error(ctx, "release idempotency key", err)
				}
				return
			}
			final := storedResponse{
				RequestHash: hash,
				Status:      capture.statusCode(),
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
			}
			if err := store.Set(ctx, key, final.encode(), ttl); err != nil {
				logg.Error(ctx, "persist idempotency record", err)
			}
		})
	}
}

func loadStored(r *http.Request, store pkgredis.IdempotencyStore, key string) (storedResponse, error) {
	var out storedResponse
	raw, err := store.Get(r.Context(), key)
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; treat like an in-flight request
		return storedResponse{Pending: true}, nil
	}
	if err != nil {
		return out, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	return out, nil
}

// idempotencyScope keeps keys private to a member and endpoint.
func idempotencyScope(r *http.Request) string {
	return fmt.Sprintf("%d|%s|%s", MemberProfileIDFromContext(r.Context()), r.Method, r.URL.Path)
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// routePattern prefers the chi pattern. Inside a subrouter the pattern is
// still partial (e.g. /api/*) so the raw path is used instead.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" && !strings.Contains(pattern, "*") {
			return pattern
		}
	}
	return strings.TrimSuffix(r.URL.Path, "/")
}

func routeTTL(method, pattern string, longTTL time.Duration) (time.Duration, bool) {
	if pattern == "" {
		return 0, false
	}
	for _, route := range idempotentRoutes {
		if !route.matches(method, pattern) {
			continue
		}
		if route.long {
			return longTTL, true
		}
		return min(defaultIdempotencyTTL, longTTL), true
	}
	return 0, false
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}
