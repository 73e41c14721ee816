package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "ASSETTRACK"

type Config struct {
	App           AppConfig
	DB            DBConfig
	JWT           JWTConfig
	AuthRateLimit AuthRateLimitConfig
	Metrics       MetricsConfig
}

type AppConfig struct {
	Addr     string `envconfig:"ASSETTRACK_ADDR" default:":8080"`
	Env      string `envconfig:"ASSETTRACK_ENV" default:"dev"`
	LogLevel string `envconfig:"ASSETTRACK_LOG_LEVEL" default:"info"`
}

type DBConfig struct {
	DSN string `envconfig:"ASSETTRACK_DB_DSN"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"ASSETTRACK_JWT_SECRET" default:"your-secret-key-change-in-production-now"`
	Issuer   string        `envconfig:"ASSETTRACK_JWT_ISS" default:"assettrack-api"`
	Audience string        `envconfig:"ASSETTRACK_JWT_AUD" default:"assettrack-api"`
	Expiry   time.Duration `envconfig:"ASSETTRACK_JWT_EXPIRY" default:"24h"`
}

type AuthRateLimitConfig struct {
	// Limit is requests per minute per client IP on login/register.
	Limit int `envconfig:"ASSETTRACK_AUTH_RATE_LIMIT" default:"10"`
	Burst int `envconfig:"ASSETTRACK_AUTH_RATE_BURST" default:"10"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"ASSETTRACK_ENABLE_METRICS" default:"false"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadAndValidate reads configuration and rejects settings the server cannot
// run with.
func LoadAndValidate() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DB.DSN == "" {
		return errors.New("ASSETTRACK_DB_DSN is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("ASSETTRACK_JWT_SECRET must be at least 32 characters")
	}
	if c.JWT.Expiry <= 0 {
		return errors.New("ASSETTRACK_JWT_EXPIRY must be positive")
	}
	if c.AuthRateLimit.Limit <= 0 || c.AuthRateLimit.Burst <= 0 {
		return errors.New("auth rate limit and burst must be positive")
	}
	return nil
}
