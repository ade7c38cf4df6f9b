package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "HOMESERVICES"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv       = "HOMESERVICES_APP_ENV"
	EnvPort         = "HOMESERVICES_APP_PORT"
	EnvDBDSN        = "HOMESERVICES_DB_DSN"
	EnvDBHost       = "HOMESERVICES_DB_HOST"
	EnvDBUser       = "HOMESERVICES_DB_USER"
	EnvDBName       = "HOMESERVICES_DB_NAME"
	EnvRedisURL     = "HOMESERVICES_REDIS_URL"
	EnvJWTSecret    = "HOMESERVICES_JWT_SECRET"
	EnvJWTIssuer    = "HOMESERVICES_JWT_ISSUER"
	EnvShippingCost = "HOMESERVICES_CHECKOUT_SHIPPING_COST"
	EnvExpiryMins   = "HOMESERVICES_CHECKOUT_EXPIRY_MINUTES"
	EnvAllowedAddr  = "HOMESERVICES_ADDRESS_ALLOWED_FIELDS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Checkout     CheckoutConfig
	Cart         CartConfig
	Address      AddressConfig
	Cron         CronConfig
	Pagination   PaginationConfig
	Outbox       OutboxConfig
	HTTP         HTTPConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HOMESERVICES_APP_ENV" required:"true"`
	Port         string `envconfig:"HOMESERVICES_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"HOMESERVICES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HOMESERVICES_LOG_WARN_STACK" default:"false"`
	// MetricsAddr is where worker binaries expose /metrics. Empty disables it.
	MetricsAddr string `envconfig:"HOMESERVICES_METRICS_ADDR" default:":9091"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	DSN    string `envconfig:"HOMESERVICES_DB_DSN"`
	Driver string `envconfig:"HOMESERVICES_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"HOMESERVICES_DB_HOST"`
	Port     int    `envconfig:"HOMESERVICES_DB_PORT" default:"5432"`
	User     string `envconfig:"HOMESERVICES_DB_USER"`
	Password string `envconfig:"HOMESERVICES_DB_PASSWORD"`
	Name     string `envconfig:"HOMESERVICES_DB_NAME"`
	SSLMode  string `envconfig:"HOMESERVICES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HOMESERVICES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HOMESERVICES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HOMESERVICES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HOMESERVICES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	// SlowQuery logs statements at warn above this duration. Zero disables it.
	SlowQuery time.Duration `envconfig:"HOMESERVICES_DB_SLOW_QUERY" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HOMESERVICES_REDIS_URL"`
	Address      string        `envconfig:"HOMESERVICES_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"HOMESERVICES_REDIS_PASSWORD"`
	DB           int           `envconfig:"HOMESERVICES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HOMESERVICES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HOMESERVICES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HOMESERVICES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HOMESERVICES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HOMESERVICES_REDIS_WRITE_TIMEOUT" default:"5s"`
	// IdempotencyTTL bounds how long a stored checkout confirmation can be replayed.
	// Other idempotent writes keep theirs for at most a day.
	IdempotencyTTL time.Duration `envconfig:"HOMESERVICES_REDIS_IDEMPOTENCY_TTL" default:"168h"`
}

// JWTConfig verifies member access tokens issued by the SSO.
type JWTConfig struct {
	Secret            string `envconfig:"HOMESERVICES_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HOMESERVICES_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"HOMESERVICES_JWT_EXPIRATION_MINUTES" default:"120"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"HOMESERVICES_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"HOMESERVICES_AUTO_MIGRATE" default:"false"`
}

// CheckoutConfig carries the flat shipping policy and the payment window.
type CheckoutConfig struct {
	ShippingCost   int64  `envconfig:"HOMESERVICES_CHECKOUT_SHIPPING_COST" default:"0"`
	ExpiryMinutes  int    `envconfig:"HOMESERVICES_CHECKOUT_EXPIRY_MINUTES" default:"60"`
	Currency       string `envconfig:"HOMESERVICES_CHECKOUT_CURRENCY" default:"IDR"`
	VoucherRetries int    `envconfig:"HOMESERVICES_CHECKOUT_VOUCHER_RETRIES" default:"3"`
}

// ExpiryWindow returns the payment window as a duration.
func (c CheckoutConfig) ExpiryWindow() time.Duration {
	return time.Duration(c.ExpiryMinutes) * time.Minute
}

func (c CheckoutConfig) validate() error {
	if c.ShippingCost < 0 {
		return fmt.Errorf("%s must not be negative", EnvShippingCost)
	}
	if c.ExpiryMinutes <= 0 {
		return fmt.Errorf("%s must be positive", EnvExpiryMins)
	}
	return nil
}

type CartConfig struct {
	MaxRetries int `envconfig:"HOMESERVICES_CART_MAX_RETRIES" default:"3"`
}

// AddressConfig whitelists the keys accepted in detail_address and its location.
type AddressConfig struct {
	AllowedFields         []string `envconfig:"HOMESERVICES_ADDRESS_ALLOWED_FIELDS" default:"city,district,sub_district,zip_code,address,notes,location"`
	LocationAllowedFields []string `envconfig:"HOMESERVICES_ADDRESS_LOCATION_ALLOWED_FIELDS" default:"lat,lng"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"HOMESERVICES_CRON_INTERVAL" default:"1m"`
	LockTTL  time.Duration `envconfig:"HOMESERVICES_CRON_LOCK_TTL" default:"5m"`
	// BatchSize caps how many expired checkouts one run closes.
	BatchSize int `envconfig:"HOMESERVICES_CRON_BATCH_SIZE" default:"200"`
}

// HTTPConfig holds the browser-facing policy of the API server.
type HTTPConfig struct {
	CORSOrigins     []string      `envconfig:"HOMESERVICES_HTTP_CORS_ORIGINS" default:"http://localhost:3000"`
	RateLimitWindow time.Duration `envconfig:"HOMESERVICES_HTTP_RATE_LIMIT_WINDOW" default:"1m"`
	// RateLimitMax caps writes per member per window on checkout and quote routes. Zero disables it.
	RateLimitMax int `envconfig:"HOMESERVICES_HTTP_RATE_LIMIT_MAX" default:"30"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"HOMESERVICES_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"HOMESERVICES_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"HOMESERVICES_OUTBOX_MAX_ATTEMPTS" default:"10"`
	RetentionDays  int `envconfig:"HOMESERVICES_OUTBOX_RETENTION_DAYS" default:"30"`
}

type PaginationConfig struct {
	PageSize    int `envconfig:"HOMESERVICES_PAGINATION_PAGE_SIZE" default:"10"`
	MaxPageSize int `envconfig:"HOMESERVICES_PAGINATION_MAX_PAGE_SIZE" default:"100"`
}

func (db *DBConfig) ensureDSN() error {
	if db.Driver == DriverSQLite {
		if db.DSN == "" {
			db.DSN = "file:homeservices.db?cache=shared"
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range legacyDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
