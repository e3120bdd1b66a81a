// Package ratelimit provides sliding-window admission control keyed by
// (endpoint, limit key).
package ratelimit

import (
	"context"
	"math"
	"time"
)

// GlobalKey is the limit key shared by every caller of an endpoint when no
// per-client key is supplied.
const GlobalKey = "global"

// DefaultWindow is the window used when a rule does not specify one.
const DefaultWindow = 60 * time.Second

// DefaultCleanupInterval bounds how often the in-memory limiter sweeps
// abandoned keys.
const DefaultCleanupInterval = time.Hour

// Rule is the limit registered for one endpoint.
type Rule struct {
	EndpointID  string        `json:"endpoint"`
	MaxRequests int           `json:"max_requests"`
	Window      time.Duration `json:"-"`
}

// Decision is the outcome of one admission check. RetryAfter is whole
// seconds and only set when the request was denied.
type Decision struct {
	Allowed    bool `json:"allowed"`
	RetryAfter int  `json:"retry_after,omitempty"`
}

// Stats reports the live counts for one endpoint.
type Stats struct {
	EndpointID      string         `json:"endpoint"`
	Limited         bool           `json:"limited"`
	MaxRequests     int            `json:"limit,omitempty"`
	WindowSeconds   int            `json:"window_seconds"`
	CurrentRequests map[string]int `json:"current_requests"`
}

// Interface is implemented by the in-memory and Redis limiters.
type Interface interface {
	// SetLimit registers or replaces the rule for an endpoint.
	SetLimit(endpointID string, maxRequests int, window time.Duration)
	// Allow checks and, when admitted, records one request.
	Allow(ctx context.Context, endpointID, limitKey string) (Decision, error)
	// Stats returns current per-key counts for an endpoint.
	Stats(ctx context.Context, endpointID string) (Stats, error)
}

// retryAfter is the whole seconds until the oldest surviving request leaves
// the window, never less than one.
func retryAfter(window, sinceOldest time.Duration) int {
	secs := int(math.Ceil((window - sinceOldest).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

func normalizeKey(key string) string {
	if key == "" {
		return GlobalKey
	}
	return key
}
