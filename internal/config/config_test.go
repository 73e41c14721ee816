package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ASSETTRACK_ADDR", "ASSETTRACK_ENV", "ASSETTRACK_LOG_LEVEL",
		"ASSETTRACK_DB_DSN", "ASSETTRACK_JWT_SECRET", "ASSETTRACK_JWT_ISS",
		"ASSETTRACK_JWT_AUD", "ASSETTRACK_JWT_EXPIRY",
		"ASSETTRACK_AUTH_RATE_LIMIT", "ASSETTRACK_AUTH_RATE_BURST",
		"ASSETTRACK_ENABLE_METRICS",
	} {
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Addr != ":8080" {
		t.Errorf("Expected default addr :8080, got %s", cfg.App.Addr)
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.App.LogLevel)
	}
	if cfg.JWT.Issuer != "assettrack-api" {
		t.Errorf("Expected default issuer, got %s", cfg.JWT.Issuer)
	}
	if cfg.JWT.Expiry != 24*time.Hour {
		t.Errorf("Expected default expiry 24h, got %v", cfg.JWT.Expiry)
	}
	if cfg.AuthRateLimit.Limit != 10 || cfg.AuthRateLimit.Burst != 10 {
		t.Errorf("Expected default rate limit 10/10, got %d/%d", cfg.AuthRateLimit.Limit, cfg.AuthRateLimit.Burst)
	}
	if cfg.Metrics.Enabled {
		t.Error("Expected metrics disabled by default")
	}
}

func TestLoadWithEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASSETTRACK_ADDR", ":9090")
	t.Setenv("ASSETTRACK_DB_DSN", "postgres://localhost/x")
	t.Setenv("ASSETTRACK_JWT_SECRET", "environment-provided-secret-key-32ch!")
	t.Setenv("ASSETTRACK_JWT_EXPIRY", "2h")
	t.Setenv("ASSETTRACK_ENABLE_METRICS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Addr != ":9090" {
		t.Errorf("Expected addr from env, got %s", cfg.App.Addr)
	}
	if cfg.DB.DSN != "postgres://localhost/x" {
		t.Errorf("Expected DSN from env, got %s", cfg.DB.DSN)
	}
	if cfg.JWT.Expiry != 2*time.Hour {
		t.Errorf("Expected expiry 2h, got %v", cfg.JWT.Expiry)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Expected metrics enabled from env")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DB:            DBConfig{DSN: "postgres://localhost/x"},
			JWT:           JWTConfig{Secret: "valid-secret-that-is-long-enough-32ch!!", Expiry: time.Hour},
			AuthRateLimit: AuthRateLimitConfig{Limit: 10, Burst: 10},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("Expected valid config to pass, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing DSN", func(c *Config) { c.DB.DSN = "" }},
		{"short secret", func(c *Config) { c.JWT.Secret = "short" }},
		{"zero expiry", func(c *Config) { c.JWT.Expiry = 0 }},
		{"zero rate limit", func(c *Config) { c.AuthRateLimit.Limit = 0 }},
		{"zero burst", func(c *Config) { c.AuthRateLimit.Burst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
