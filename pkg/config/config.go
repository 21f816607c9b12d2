package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "storefront"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Session SessionConfig
	Payment PaymentConfig
	Auth    AuthConfig
	Stub    StubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Session.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig locates the remote Catalog & Order Service.
type CatalogConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_CATALOG_BASE_URL" default:"http://localhost:8080"`
	Timeout time.Duration `envconfig:"STOREFRONT_CATALOG_TIMEOUT" default:"10s"`
}

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// SessionConfig selects the session-scoped key-value store.
type SessionConfig struct {
	Backend      string        `envconfig:"STOREFRONT_SESSION_BACKEND" default:"memory"`
	TTL          time.Duration `envconfig:"STOREFRONT_SESSION_TTL" default:"30m"`
	RedisURL     string        `envconfig:"STOREFRONT_SESSION_REDIS_URL"`
	RedisAddress string        `envconfig:"STOREFRONT_SESSION_REDIS_ADDR"`
	RedisDB      int           `envconfig:"STOREFRONT_SESSION_REDIS_DB" default:"0"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_SESSION_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_SESSION_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_SESSION_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (s SessionConfig) validate() error {
	switch s.Backend {
	case SessionBackendMemory:
		return nil
	case SessionBackendRedis:
		if s.RedisURL == "" && s.RedisAddress == "" {
			return fmt.Errorf("session backend %q requires a redis url or address", s.Backend)
		}
		return nil
	default:
		return fmt.Errorf("unknown session backend %q", s.Backend)
	}
}

// PaymentConfig tunes the simulated payment gateway.
type PaymentConfig struct {
	ProcessingDelay time.Duration `envconfig:"STOREFRONT_PAYMENT_PROCESSING_DELAY" default:"2s"`
}

type AuthConfig struct {
	JWTSecret string        `envconfig:"STOREFRONT_JWT_SECRET" default:"storefront-dev-secret"`
	Issuer    string        `envconfig:"STOREFRONT_JWT_ISSUER" default:"storefront"`
	TokenTTL  time.Duration `envconfig:"STOREFRONT_TOKEN_TTL" default:"1h"`
}

// StubConfig configures the bundled in-memory catalog service.
type StubConfig struct {
	Port string `envconfig:"STOREFRONT_STUB_PORT" default:"8080"`
	Seed bool   `envconfig:"STOREFRONT_STUB_SEED" default:"true"`
}
