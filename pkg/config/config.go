package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable consumed by the app.
	EnvPrefix = "BEWORKING"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Stripe       StripeConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BEWORKING_APP_ENV" required:"true"`
	Port         string `envconfig:"BEWORKING_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BEWORKING_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BEWORKING_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"BEWORKING_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"BEWORKING_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BEWORKING_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BEWORKING_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BEWORKING_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BEWORKING_REDIS_URL"`
	Address      string        `envconfig:"BEWORKING_REDIS_ADDR"`
	Password     string        `envconfig:"BEWORKING_REDIS_PASSWORD"`
	DB           int           `envconfig:"BEWORKING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BEWORKING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BEWORKING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BEWORKING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BEWORKING_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BEWORKING_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BEWORKING_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BEWORKING_JWT_ISSUER" default:"beworking"`
	ExpirationMinutes int    `envconfig:"BEWORKING_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BEWORKING_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BEWORKING_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BEWORKING_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BEWORKING_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BEWORKING_ARGON_KEY_LEN" default:"32"`
}

type StripeConfig struct {
	SecretKey        string        `envconfig:"BEWORKING_STRIPE_SECRET_KEY"`
	WebhookSecret    string        `envconfig:"BEWORKING_STRIPE_WEBHOOK_SECRET"`
	WebhookTolerance time.Duration `envconfig:"BEWORKING_STRIPE_WEBHOOK_TOLERANCE" default:"5m"`
	PriceID          string        `envconfig:"BEWORKING_STRIPE_PRICE_ID"`
	SuccessURL       string        `envconfig:"BEWORKING_STRIPE_SUCCESS_URL" default:"http://localhost:3000/subscription/success"`
	CancelURL        string        `envconfig:"BEWORKING_STRIPE_CANCEL_URL" default:"http://localhost:3000/subscription/cancel"`
	IdempotencyTTL   time.Duration `envconfig:"BEWORKING_STRIPE_IDEMPOTENCY_TTL" default:"72h"`
}

// CheckoutConfigured reports whether the keys needed to open a checkout
// session are present.
func (s StripeConfig) CheckoutConfigured() bool {
	return strings.TrimSpace(s.SecretKey) != "" && strings.TrimSpace(s.PriceID) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BEWORKING_AUTO_MIGRATE" default:"false"`
}
