package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/homeservices-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/homeservices-backend/api/controllers/cart"
	checkoutcontrollers "github.com/angelmondragon/homeservices-backend/api/controllers/checkout"
	ordercontrollers "github.com/angelmondragon/homeservices-backend/api/controllers/orders"
	quotecontrollers "github.com/angelmondragon/homeservices-backend/api/controllers/quotes"
	"github.com/angelmondragon/homeservices-backend/api/middleware"
	"github.com/angelmondragon/homeservices-backend/internal/cart"
	checkoutsvc "github.com/angelmondragon/homeservices-backend/internal/checkout"
	"github.com/angelmondragon/homeservices-backend/internal/orders"
	"github.com/angelmondragon/homeservices-backend/internal/quotes"
	"github.com/angelmondragon/homeservices-backend/pkg/config"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/homeservices-backend/pkg/redis"
)

// RedisStore is the redis surface used by the HTTP layer.
type RedisStore interface {
	pkgredis.IdempotencyStore
	pkgredis.RateLimiter
	Ping(ctx context.Context) error
}

// Dependencies carries everything NewRouter wires into handlers.
type Dependencies struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              controllers.Pinger
	Redis           RedisStore
	MetricsGatherer prometheus.Gatherer

	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orders.Service
	QuotesService   quotes.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	gatherer := deps.MetricsGatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	var idempotencyStore pkgredis.IdempotencyStore
	var limiter pkgredis.RateLimiter
	ready := map[string]controllers.Pinger{}
	if deps.DB != nil {
		ready["db"] = deps.DB
	}
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
		limiter = deps.Redis
		ready["redis"] = deps.Redis
	}

	writePolicy := middleware.NewRateLimitPolicy("checkout-write", cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitMax)
	quotePolicy := middleware.NewRateLimitPolicy("quote-write", cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitMax)
	writeLimit := middleware.RateLimit(writePolicy, limiter, logg)
	quoteLimit := middleware.RateLimit(quotePolicy, limiter, logg)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, ready))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, cfg.Redis.IdempotencyTTL, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(deps.CartService, logg))
			r.Post("/items", cartcontrollers.CartAddItem(deps.CartService, logg))
			r.Post("/items/remove", cartcontrollers.CartRemoveItems(deps.CartService, logg))
		})

		r.Route("/v1/checkout", func(r chi.Router) {
			r.Post("/preview", checkoutcontrollers.Preview(deps.CheckoutService, logg))
			r.With(writeLimit).Post("/confirm", checkoutcontrollers.Confirm(deps.CheckoutService, logg))
		})
		r.Route("/v1/checkouts", func(r chi.Router) {
			r.Get("/", checkoutcontrollers.List(deps.CheckoutService, cfg.Pagination, logg))
			r.Get("/{checkoutId}", checkoutcontrollers.Detail(deps.CheckoutService, logg))
		})
		r.Route("/v1/payments", func(r chi.Router) {
			r.With(writeLimit).Post("/check", checkoutcontrollers.PaymentCheck(deps.CheckoutService, logg))
			r.Get("/{checkoutId}", checkoutcontrollers.PaymentDetail(deps.CheckoutService, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			svc := deps.OrdersService
			page := cfg.Pagination
			r.Route("/product", func(r chi.Router) {
				r.Post("/", ordercontrollers.CreateProduct(svc, logg))
				r.Get("/", ordercontrollers.ListProduct(svc, page, logg))
				r.Get("/{orderId}", ordercontrollers.GetProduct(svc, logg))
				r.Put("/{orderId}", ordercontrollers.UpdateProduct(svc, logg))
				r.Delete("/{orderId}", ordercontrollers.Delete(svc, enums.ItemTypeProduct, logg))
			})
			r.Route("/installation", func(r chi.Router) {
				r.Post("/", ordercontrollers.CreateInstallation(svc, logg))
				r.Get("/", ordercontrollers.ListInstallation(svc, page, logg))
				r.Get("/{orderId}", ordercontrollers.GetInstallation(svc, logg))
				r.Put("/{orderId}", ordercontrollers.UpdateInstallation(svc, logg))
				r.Delete("/{orderId}", ordercontrollers.Delete(svc, enums.ItemTypeInstallation, logg))
			})
			r.Route("/cleaning", func(r chi.Router) {
				r.Post("/", ordercontrollers.CreateCleaning(svc, logg))
				r.Get("/", ordercontrollers.ListCleaning(svc, page, logg))
				r.Get("/{orderId}", ordercontrollers.GetCleaning(svc, logg))
				r.Put("/{orderId}", ordercontrollers.UpdateCleaning(svc, logg))
				r.Delete("/{orderId}", ordercontrollers.Delete(svc, enums.ItemTypeCleaning, logg))
			})
		})

		r.Route("/v1/quotes", func(r chi.Router) {
			r.With(quoteLimit).Post("/installation/preview", quotecontrollers.PreviewInstallation(deps.QuotesService, logg))
			r.Get("/", quotecontrollers.List(deps.QuotesService, cfg.Pagination, logg))
			r.Get("/{quoteId}", quotecontrollers.Detail(deps.QuotesService, logg))
		})
	})

	return r
}
