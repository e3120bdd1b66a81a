package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"HTTP_PORT",
	"METRICS_PORT",
	"HTTP_READ_TIMEOUT",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"RATE_LIMIT_BACKEND",
	"RATE_LIMITS",
	"RATE_LIMIT_PER_CLIENT",
	"RATE_LIMIT_TRUST_PROXY",
	"RATE_LIMIT_CLEANUP_INTERVAL",
	"REDIS_URL",
	"PRICING_DEFAULT_MARKUP",
	"PRICING_DEFAULT_COG",
	"SHIPPING_RATE_MEDIA_MAIL",
	"SHIPPING_RATE_GROUND_ADVANTAGE",
}

// clearConfigEnv unsets every key Load reads and restores them afterwards
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("load with defaults", func(t *testing.T) {
		clearConfigEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, "9090", cfg.MetricsPort)
		assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, RateLimitBackendMemory, cfg.RateLimitBackend)
		assert.True(t, cfg.RateLimitPerClient)
		assert.False(t, cfg.RateLimitTrustProxy)
		assert.Equal(t, time.Hour, cfg.RateLimitCleanupInterval)
		assert.Equal(t, []RateLimitRule{
			{Endpoint: "price-lookup", MaxRequests: 20, Window: time.Minute},
			{Endpoint: "shipping-quote", MaxRequests: 60, Window: time.Minute},
			{Endpoint: "intake", MaxRequests: 50, Window: time.Minute},
		}, cfg.RateLimits)
		assert.True(t, decimal.RequireFromString("0.10").Equal(cfg.DefaultMarkup))
		assert.True(t, decimal.RequireFromString("1.00").Equal(cfg.DefaultCostOfGoods))
		assert.True(t, cfg.MediaMailRate.IsZero())
		assert.True(t, cfg.GroundAdvantageRate.IsZero())
		assert.Equal(t, ":8080", cfg.GetServerAddress())
	})

	t.Run("load with custom env vars", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("HTTP_PORT", "9000")
		t.Setenv("HTTP_READ_TIMEOUT", "45s")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "console")
		t.Setenv("RATE_LIMIT_BACKEND", "Redis")
		t.Setenv("RATE_LIMITS", "telegram-webhook=100/1m,webhook/airtable=50")
		t.Setenv("RATE_LIMIT_PER_CLIENT", "false")
		t.Setenv("RATE_LIMIT_TRUST_PROXY", "true")
		t.Setenv("RATE_LIMIT_CLEANUP_INTERVAL", "10m")
		t.Setenv("REDIS_URL", "redis://cache:6379/2")
		t.Setenv("PRICING_DEFAULT_MARKUP", "0.15")
		t.Setenv("PRICING_DEFAULT_COG", "0.75")
		t.Setenv("SHIPPING_RATE_MEDIA_MAIL", "4.63")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.HTTPPort)
		assert.Equal(t, 45*time.Second, cfg.ReadTimeout)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "console", cfg.LogFormat)
		assert.Equal(t, RateLimitBackendRedis, cfg.RateLimitBackend)
		assert.False(t, cfg.RateLimitPerClient)
		assert.True(t, cfg.RateLimitTrustProxy)
		assert.Equal(t, 10*time.Minute, cfg.RateLimitCleanupInterval)
		assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
		assert.Equal(t, []RateLimitRule{
			{Endpoint: "telegram-webhook", MaxRequests: 100, Window: time.Minute},
			{Endpoint: "webhook/airtable", MaxRequests: 50, Window: time.Minute},
		}, cfg.RateLimits)
		assert.True(t, decimal.RequireFromString("0.15").Equal(cfg.DefaultMarkup))
		assert.True(t, decimal.RequireFromString("0.75").Equal(cfg.DefaultCostOfGoods))
		assert.True(t, decimal.RequireFromString("4.63").Equal(cfg.MediaMailRate))
	})

	t.Run("invalid values fall back to defaults", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("HTTP_READ_TIMEOUT", "invalid")
		t.Setenv("RATE_LIMIT_PER_CLIENT", "maybe")
		t.Setenv("PRICING_DEFAULT_MARKUP", "ten percent")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
		assert.True(t, cfg.RateLimitPerClient)
		assert.True(t, decimal.RequireFromString("0.10").Equal(cfg.DefaultMarkup))
	})

	t.Run("bad rate limits fail", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("RATE_LIMITS", "price-lookup=lots")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "price-lookup=lots")
	})

	t.Run("bad log level fails", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("LOG_LEVEL", "verbose")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{
			LogLevel:                 "info",
			RateLimitBackend:         RateLimitBackendMemory,
			RateLimitCleanupInterval: time.Hour,
			DefaultMarkup:            decimal.RequireFromString("0.10"),
			DefaultCostOfGoods:       decimal.RequireFromString("1.00"),
		}
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "unknown backend",
			mutate:      func(c *Config) { c.RateLimitBackend = "memcached" },
			expectError: true,
			errorMsg:    "rate limit backend",
		},
		{
			name:        "redis backend without url",
			mutate:      func(c *Config) { c.RateLimitBackend = RateLimitBackendRedis },
			expectError: true,
			errorMsg:    "redis_url",
		},
		{
			name: "redis backend with url",
			mutate: func(c *Config) {
				c.RateLimitBackend = RateLimitBackendRedis
				c.RedisURL = "redis://localhost:6379/0"
			},
			expectError: false,
		},
		{
			name:        "zero cleanup interval",
			mutate:      func(c *Config) { c.RateLimitCleanupInterval = 0 },
			expectError: true,
			errorMsg:    "cleanup_interval",
		},
		{
			name:        "negative markup",
			mutate:      func(c *Config) { c.DefaultMarkup = decimal.RequireFromString("-0.1") },
			expectError: true,
			errorMsg:    "pricing_default_markup",
		},
		{
			name:        "negative cog",
			mutate:      func(c *Config) { c.DefaultCostOfGoods = decimal.RequireFromString("-1") },
			expectError: true,
			errorMsg:    "pricing_default_cog",
		},
		{
			name:        "negative shipping rate",
			mutate:      func(c *Config) { c.GroundAdvantageRate = decimal.RequireFromString("-5.25") },
			expectError: true,
			errorMsg:    "shipping rates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestParseRateLimits(t *testing.T) {
	rules, err := ParseRateLimits("price-lookup=20/1m, webhook/airtable=50/30s,intake=120")
	require.NoError(t, err)
	assert.Equal(t, []RateLimitRule{
		{Endpoint: "price-lookup", MaxRequests: 20, Window: time.Minute},
		{Endpoint: "webhook/airtable", MaxRequests: 50, Window: 30 * time.Second},
		{Endpoint: "intake", MaxRequests: 120, Window: time.Minute},
	}, rules)

	empty, err := ParseRateLimits("  ")
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, bad := range []string{"noequals", "=5/1m", "x=0/1m", "x=abc", "x=5/forever", "x=5/-1s"} {
		_, err := ParseRateLimits(bad)
		assert.Error(t, err, bad)
	}
}
