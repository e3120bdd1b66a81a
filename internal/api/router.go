package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"media-reseller-go/internal/api/handlers"
	"media-reseller-go/internal/api/middleware"
	"media-reseller-go/internal/config"
	"media-reseller-go/internal/pricing"
	"media-reseller-go/internal/ratelimit"
	"media-reseller-go/internal/shipping"
)

// Rate limit endpoint IDs. RATE_LIMITS rules refer to these names.
const (
	LimitPriceLookup   = "price-lookup"
	LimitShippingQuote = "shipping-quote"
	LimitIntake        = "intake"
)

// Deps are the components served by the router
type Deps struct {
	Engine     *pricing.Engine
	Calculator *shipping.Calculator
	Limiter    ratelimit.Interface
	// Redis is checked by the readiness probe; nil with the in-memory limiter
	Redis handlers.Pinger
}

// NewRouter creates a new Chi router with all routes and middleware configured
func NewRouter(deps Deps, cfg *config.Config, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	// Apply middleware stack
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.RequestID)
	// Forwarding headers are client-controlled unless a proxy in front rewrites them
	if cfg.RateLimitTrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Initialize handlers
	pricingHandler := handlers.NewPricingHandler(deps.Engine, logger)
	shippingHandler := handlers.NewShippingHandler(deps.Calculator, logger)
	intakeHandler := handlers.NewIntakeHandler(deps.Engine, deps.Calculator, logger)
	rateLimitHandler := handlers.NewRateLimitHandler(deps.Limiter, logger)
	healthHandler := handlers.NewHealthHandler(deps.Redis, cfg.AppVersion, logger)

	limit := func(endpointID string) func(next http.Handler) http.Handler {
		return middleware.RateLimit(deps.Limiter, endpointID, cfg.RateLimitPerClient, logger)
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Pricing endpoints
		r.With(limit(LimitPriceLookup)).Post("/price", pricingHandler.Handle)
		r.With(limit(LimitPriceLookup)).Post("/price/matrix", pricingHandler.HandleMatrix)

		// Shipping endpoints
		r.Group(func(r chi.Router) {
			r.Use(limit(LimitShippingQuote))
			r.Post("/shipping/quote", shippingHandler.HandleQuote)
			r.Get("/shipping/estimate", shippingHandler.HandleEstimate)
			r.Post("/shipping/bulk", shippingHandler.HandleBulk)
		})

		// Intake endpoints
		r.Group(func(r chi.Router) {
			r.Use(limit(LimitIntake))
			r.Post("/sku", intakeHandler.HandleSKU)
			r.Post("/intake", intakeHandler.Handle)
		})

		// Rate limiter stats
		r.Get("/ratelimit/{endpoint}", rateLimitHandler.Handle)

		// Health and readiness endpoints
		r.Get("/health", healthHandler.HandleHealth)
		r.Get("/ready", healthHandler.HandleReady)

		// Metrics endpoint
		r.Get("/metrics", promhttp.Handler().ServeHTTP)
	})

	return r
}
