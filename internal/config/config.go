package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Rate limiter backends
const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// DefaultRateLimits is applied when RATE_LIMITS is unset
const DefaultRateLimits = "price-lookup=20/1m,shipping-quote=60/1m,intake=50/1m"

// Config holds all application configuration
type Config struct {
	// Server configuration
	HTTPPort        string
	MetricsPort     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string

	// Rate limiting
	RateLimitBackend         string
	RateLimits               []RateLimitRule
	RateLimitPerClient       bool
	RateLimitTrustProxy      bool
	RateLimitCleanupInterval time.Duration

	// Redis configuration (redis rate limit backend only)
	RedisURL         string
	RedisPoolSize    int
	RedisMinIdleConn int
	RedisMaxRetries  int
	RedisDialTimeout time.Duration

	// Pricing defaults
	DefaultMarkup      decimal.Decimal
	DefaultCostOfGoods decimal.Decimal

	// Shipping base rate overrides; zero means "use the built-in rate"
	MediaMailRate       decimal.Decimal
	GroundAdvantageRate decimal.Decimal

	// Application metadata
	AppName    string
	AppVersion string
}

// Load loads configuration from a local .env file (if present) and
// environment variables
func Load() (*Config, error) {
	// Existing environment variables win over .env entries
	_ = godotenv.Load()

	rules, err := ParseRateLimits(getEnv("RATE_LIMITS", DefaultRateLimits))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := &Config{
		HTTPPort:                 getEnv("HTTP_PORT", "8080"),
		MetricsPort:              getEnv("METRICS_PORT", "9090"),
		ReadTimeout:              getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:             getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:              getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:          getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		LogFormat:                getEnv("LOG_FORMAT", "json"),
		RateLimitBackend:         strings.ToLower(getEnv("RATE_LIMIT_BACKEND", RateLimitBackendMemory)),
		RateLimits:               rules,
		RateLimitPerClient:       getEnvBool("RATE_LIMIT_PER_CLIENT", true),
		RateLimitTrustProxy:      getEnvBool("RATE_LIMIT_TRUST_PROXY", false),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", time.Hour),
		RedisURL:                 getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPoolSize:            getEnvInt("REDIS_POOL_SIZE", 20),
		RedisMinIdleConn:         getEnvInt("REDIS_MIN_IDLE_CONN", 2),
		RedisMaxRetries:          getEnvInt("REDIS_MAX_RETRIES", 3),
		RedisDialTimeout:         getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		DefaultMarkup:            getEnvDecimal("PRICING_DEFAULT_MARKUP", decimal.RequireFromString("0.10")),
		DefaultCostOfGoods:       getEnvDecimal("PRICING_DEFAULT_COG", decimal.RequireFromString("1.00")),
		MediaMailRate:            getEnvDecimal("SHIPPING_RATE_MEDIA_MAIL", decimal.Zero),
		GroundAdvantageRate:      getEnvDecimal("SHIPPING_RATE_GROUND_ADVANTAGE", decimal.Zero),
		AppName:                  "media-reseller",
		AppVersion:               getEnv("APP_VERSION", "dev"),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", c.LogLevel)
	}

	switch c.RateLimitBackend {
	case RateLimitBackendMemory:
	case RateLimitBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis_url is required when RATE_LIMIT_BACKEND=redis")
		}
	default:
		return fmt.Errorf("invalid rate limit backend: %s (must be memory/redis)", c.RateLimitBackend)
	}

	if c.RateLimitCleanupInterval <= 0 {
		return fmt.Errorf("rate_limit_cleanup_interval must be positive")
	}
	if c.DefaultMarkup.IsNegative() {
		return fmt.Errorf("pricing_default_markup cannot be negative")
	}
	if c.DefaultCostOfGoods.IsNegative() {
		return fmt.Errorf("pricing_default_cog cannot be negative")
	}
	if c.MediaMailRate.IsNegative() || c.GroundAdvantageRate.IsNegative() {
		return fmt.Errorf("shipping rates cannot be negative")
	}

	return nil
}

// GetServerAddress returns the listen address of the API server
func (c *Config) GetServerAddress() string {
	return ":" + c.HTTPPort
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return defaultVal
		}
		return b
	}
	return defaultVal
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return defaultVal
		}
		return i
	}
	return defaultVal
}

// getEnvDuration retrieves a duration environment variable or returns a default value
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return defaultVal
		}
		return d
	}
	return defaultVal
}

// getEnvDecimal retrieves a decimal environment variable or returns a default value
func getEnvDecimal(key string, defaultVal decimal.Decimal) decimal.Decimal {
	if val := os.Getenv(key); val != "" {
		d, err := decimal.NewFromString(val)
		if err != nil {
			return defaultVal
		}
		return d
	}
	return defaultVal
}
