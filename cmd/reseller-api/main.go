package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"media-reseller-go/internal/api"
	"media-reseller-go/internal/api/handlers"
	"media-reseller-go/internal/config"
	"media-reseller-go/internal/pricing"
	"media-reseller-go/internal/ratelimit"
	"media-reseller-go/internal/redisclient"
	"media-reseller-go/internal/shipping"
)

func main() {
	// Create root context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting reseller API",
		zap.String("app", cfg.AppName),
		zap.String("version", cfg.AppVersion),
		zap.String("rate_limit_backend", cfg.RateLimitBackend),
	)

	// Create rate limiter
	var limiter ratelimit.Interface
	var readiness handlers.Pinger
	switch cfg.RateLimitBackend {
	case config.RateLimitBackendRedis:
		redisClient, err := redisclient.NewClient(cfg)
		if err != nil {
			logger.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("Error closing Redis connection", zap.Error(err))
			}
		}()

		if err := redisClient.Ping(ctx); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		logger.Info("Connected to Redis")

		limiter = ratelimit.NewRedisLimiter(redisClient.GetRedis(), logger)
		readiness = redisClient
		go runHealthChecks(ctx, redisClient, logger)
	default:
		limiter = ratelimit.New(
			ratelimit.WithCleanupInterval(cfg.RateLimitCleanupInterval),
			ratelimit.WithLogger(logger),
		)
	}

	for _, rule := range cfg.RateLimits {
		limiter.SetLimit(rule.Endpoint, rule.MaxRequests, rule.Window)
		logger.Info("Rate limit registered",
			zap.String("endpoint", rule.Endpoint),
			zap.Int("max_requests", rule.MaxRequests),
			zap.Duration("window", rule.Window),
		)
	}

	// Create components
	var shippingOpts []shipping.Option
	if !cfg.MediaMailRate.IsZero() {
		shippingOpts = append(shippingOpts, shipping.WithRate(shipping.MediaMail, cfg.MediaMailRate))
	}
	if !cfg.GroundAdvantageRate.IsZero() {
		shippingOpts = append(shippingOpts, shipping.WithRate(shipping.GroundAdvantage, cfg.GroundAdvantageRate))
	}
	calc := shipping.NewCalculator(shippingOpts...)
	engine := pricing.NewEngine(logger, pricing.WithDefaults(cfg.DefaultMarkup, cfg.DefaultCostOfGoods))

	router := api.NewRouter(api.Deps{
		Engine:     engine,
		Calculator: calc,
		Limiter:    limiter,
		Redis:      readiness,
	}, cfg, logger)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start metrics server (if different port) with its own minimal mux
	var metricsServer *http.Server
	if cfg.MetricsPort != cfg.HTTPPort {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		metricsServer = &http.Server{
			Addr:    ":" + cfg.MetricsPort,
			Handler: metricsMux,
		}
	}

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start servers in goroutines
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if metricsServer != nil {
		go func() {
			logger.Info("Starting metrics server", zap.String("port", cfg.MetricsPort))
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("Reseller API started successfully",
		zap.String("http_port", cfg.HTTPPort),
		zap.String("metrics_port", cfg.MetricsPort),
		zap.Bool("per_client_limits", cfg.RateLimitPerClient),
		zap.Bool("trust_proxy_headers", cfg.RateLimitTrustProxy),
	)

	// Wait for shutdown signal
	<-quit
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Cancel root context to stop background processes
	cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}

	logger.Info("Reseller API shutdown complete")
}

func setupLogger(cfg *config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)

	if cfg.LogFormat == "console" {
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	return config.Build()
}

// runHealthChecks pings Redis periodically so connection loss shows up in the
// logs before the limiter starts failing open
func runHealthChecks(ctx context.Context, redisClient *redisclient.Client, logger *zap.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := redisClient.Ping(ctx); err != nil {
				logger.Warn("Redis health check failed", zap.Error(err))
			}
		}
	}
}
