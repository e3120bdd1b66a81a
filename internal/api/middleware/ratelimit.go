package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"media-reseller-go/internal/ratelimit"
)

// RateLimit returns a middleware that admits requests through limiter under
// endpointID. With perClient the limit key is the client address (set by
// chi's RealIP upstream), otherwise every caller shares the global budget.
// A failing limiter lets the request through.
func RateLimit(limiter ratelimit.Interface, endpointID string, perClient bool, logger *zap.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ratelimit.GlobalKey
			if perClient {
				key = clientKey(r)
			}

			decision, err := limiter.Allow(r.Context(), endpointID, key)
			if err != nil {
				logger.Error("rate limiter unavailable, admitting request",
					zap.Error(err),
					zap.String("endpoint", endpointID),
					zap.String("limit_key", key),
				)
				RateLimitDecisionsTotal.WithLabelValues(endpointID, "error").Inc()
				next.ServeHTTP(w, r)
				return
			}

			if !decision.Allowed {
				RateLimitDecisionsTotal.WithLabelValues(endpointID, "denied").Inc()
				logger.Info("rate limit exceeded",
					zap.String("endpoint", endpointID),
					zap.String("limit_key", key),
					zap.Int("retry_after", decision.RetryAfter),
				)

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(decision.RetryAfter))
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"error":       "rate limit exceeded",
					"retry_after": decision.RetryAfter,
				})
				return
			}

			RateLimitDecisionsTotal.WithLabelValues(endpointID, "allowed").Inc()
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey is the request's remote host without the port
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return ratelimit.GlobalKey
	}
	return host
}
