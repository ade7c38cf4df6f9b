package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/homeservices-backend/api/routes"
	"github.com/angelmondragon/homeservices-backend/internal/cart"
	"github.com/angelmondragon/homeservices-backend/internal/catalog"
	"github.com/angelmondragon/homeservices-backend/internal/checkout"
	"github.com/angelmondragon/homeservices-backend/internal/orders"
	"github.com/angelmondragon/homeservices-backend/internal/quotes"
	"github.com/angelmondragon/homeservices-backend/pkg/config"
	"github.com/angelmondragon/homeservices-backend/pkg/db"
	"github.com/angelmondragon/homeservices-backend/pkg/instance"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
	"github.com/angelmondragon/homeservices-backend/pkg/metrics"
	"github.com/angelmondragon/homeservices-backend/pkg/migrate"
	"github.com/angelmondragon/homeservices-backend/pkg/outbox"
	"github.com/angelmondragon/homeservices-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	deps, err := buildServices(cfg, logg, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}
	deps.Config = cfg
	deps.Logger = logg
	deps.DB = dbClient
	deps.Redis = redisClient
	deps.MetricsGatherer = prometheus.DefaultGatherer

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := instance.GetID()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown failed", err)
		}
		logg.Info(shutdownCtx, "api server shut down gracefully")
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (routes.Dependencies, error) {
	conn := dbClient.DB()
	resolver := catalog.NewResolver(catalog.NewRepository(conn))
	events := outbox.NewService(outbox.NewRepository(conn), logg)

	cartService, err := cart.NewService(cart.NewRepository(conn), resolver, cfg.Cart, logg)
	if err != nil {
		return routes.Dependencies{}, err
	}

	checkoutService, err := checkout.NewService(
		checkout.NewRepository(conn),
		cartService,
		dbClient,
		events,
		cfg.Checkout,
		metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
		logg,
	)
	if err != nil {
		return routes.Dependencies{}, err
	}

	ordersService, err := orders.NewService(
		orders.NewRepository(conn),
		resolver,
		cartService,
		dbClient,
		events,
		orders.NewAddressValidator(cfg.Address),
		cfg.Checkout.Currency,
		logg,
	)
	if err != nil {
		return routes.Dependencies{}, err
	}

	quotesService, err := quotes.NewService(quotes.NewRepository(conn), resolver, logg)
	if err != nil {
		return routes.Dependencies{}, err
	}

	return routes.Dependencies{
		CartService:     cartService,
		CheckoutService: checkoutService,
		OrdersService:   ordersService,
		QuotesService:   quotesService,
	}, nil
}
