package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration.
// Populated from environment variables (and .env when present).
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Recommender RecommenderConfig
	RateLimit   RateLimitConfig
	Cache       CacheConfig
}

type AppConfig struct {
	Name        string `env:"APP_NAME" envDefault:"Booka API"`
	Environment string `env:"APP_ENV" envDefault:"development"` // development, staging, production
	Port        string `env:"APP_PORT" envDefault:"8080"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	// only consulted outside development, where every origin is allowed
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

type DatabaseConfig struct {
	Host              string        `env:"DB_HOST" envDefault:"localhost"`
	Port              int           `env:"DB_PORT" envDefault:"5432"`
	User              string        `env:"DB_USER" envDefault:"booka"`
	Password          string        `env:"DB_PASSWORD" envDefault:"secret"`
	Name              string        `env:"DB_NAME" envDefault:"booka_dev"`
	SSLMode           string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns          int32         `env:"DB_MAX_CONNECTIONS" envDefault:"25"`
	MinConns          int32         `env:"DB_MIN_CONNECTIONS" envDefault:"5"`
	MaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"5m"`
	MaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"1m"`
	HealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	MaxRetries        int           `env:"DB_MAX_RETRIES" envDefault:"5"`
	RetryDelay        time.Duration `env:"DB_RETRY_DELAY" envDefault:"1s"`
	ConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Prefix   string `env:"REDIS_PREFIX" envDefault:"booka"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	Expiry time.Duration `env:"JWT_EXPIRY" envDefault:"720h"`
}

type RecommenderConfig struct {
	BaseURL string        `env:"RECOMMENDER_URL" envDefault:"http://localhost:8000"`
	Timeout time.Duration `env:"RECOMMENDER_TIMEOUT" envDefault:"3s"`
	// breaker opens after this many consecutive failures
	MaxFailures  uint32        `env:"RECOMMENDER_MAX_FAILURES" envDefault:"5"`
	OpenInterval time.Duration `env:"RECOMMENDER_OPEN_INTERVAL" envDefault:"30s"`
}

type RateLimitConfig struct {
	Enabled bool    `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RPS     float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	Burst   int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

type CacheConfig struct {
	OnboardingTTL time.Duration `env:"ONBOARDING_CACHE_TTL" envDefault:"10m"`
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings that cannot be defaulted safely
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return errors.New("DB_PASSWORD must be set in production")
		}
	}

	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWT.Expiry <= 0 {
		return errors.New("JWT_EXPIRY must be positive")
	}
	if c.Recommender.BaseURL == "" {
		return errors.New("RECOMMENDER_URL must be set")
	}
	if c.Recommender.Timeout <= 0 {
		return errors.New("RECOMMENDER_TIMEOUT must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
