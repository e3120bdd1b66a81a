package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// defaultRateLimitWindow applies to rules that omit the window
const defaultRateLimitWindow = 60 * time.Second

// RateLimitRule is one endpoint limit from RATE_LIMITS
type RateLimitRule struct {
	Endpoint    string
	MaxRequests int
	Window      time.Duration
}

// ParseRateLimits parses a comma separated list of "endpoint=max/window"
// rules, e.g. "price-lookup=20/1m,intake=50/30s". A rule without a window
// ("price-lookup=20") uses a 60s window.
func ParseRateLimits(s string) ([]RateLimitRule, error) {
	var rules []RateLimitRule
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		endpoint, spec, ok := strings.Cut(part, "=")
		endpoint = strings.TrimSpace(endpoint)
		if !ok || endpoint == "" {
			return nil, fmt.Errorf("invalid rate limit %q: want endpoint=max/window", part)
		}

		maxStr, windowStr, hasWindow := strings.Cut(strings.TrimSpace(spec), "/")
		maxRequests, err := strconv.Atoi(strings.TrimSpace(maxStr))
		if err != nil || maxRequests < 1 {
			return nil, fmt.Errorf("invalid rate limit %q: max requests must be a positive integer", part)
		}

		window := defaultRateLimitWindow
		if hasWindow {
			window, err = time.ParseDuration(strings.TrimSpace(windowStr))
			if err != nil || window <= 0 {
				return nil, fmt.Errorf("invalid rate limit %q: bad window %q", part, windowStr)
			}
		}

		rules = append(rules, RateLimitRule{Endpoint: endpoint, MaxRequests: maxRequests, Window: window})
	}
	return rules, nil
}
