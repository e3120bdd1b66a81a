package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Limiter is an in-process sliding-window limiter. Every read-modify-write
// runs under one mutex so a check and its increment are atomic. State is
// lost on restart.
type Limiter struct {
	mu              sync.Mutex
	rules           map[string]Rule
	requests        map[string]map[string][]time.Time
	cleanupInterval time.Duration
	lastCleanup     time.Time
	now             func() time.Time
	logger          *zap.Logger
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithCleanupInterval sets the minimum time between sweeps of stale keys.
func WithCleanupInterval(d time.Duration) Option {
	return func(l *Limiter) {
		l.cleanupInterval = d
	}
}

// WithLogger sets the logger used for sweep diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates an empty limiter.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		rules:           make(map[string]Rule),
		requests:        make(map[string]map[string][]time.Time),
		cleanupInterval: DefaultCleanupInterval,
		now:             time.Now,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.lastCleanup = l.now()
	return l
}

// SetLimit registers or replaces the rule for endpointID. Recorded
// timestamps are kept; the new window applies from the next check.
func (l *Limiter) SetLimit(endpointID string, maxRequests int, window time.Duration) {
	if window <= 0 {
		window = DefaultWindow
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rules[endpointID] = Rule{EndpointID: endpointID, MaxRequests: maxRequests, Window: window}
}

// Rule returns the rule registered for endpointID.
func (l *Limiter) Rule(endpointID string) (Rule, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.rules[endpointID]
	return r, ok
}

// IsAllowed reports whether one more request for (endpointID, limitKey) fits
// in the window and records it if so. When denied, retryAfter is the whole
// seconds until a slot frees up (at least 1). Endpoints without a rule are
// always allowed.
func (l *Limiter) IsAllowed(endpointID, limitKey string) (allowed bool, retryAfterSecs int) {
	limitKey = normalizeKey(limitKey)

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	rule, ok := l.rules[endpointID]
	if !ok {
		return true, 0
	}

	keys := l.requests[endpointID]
	if keys == nil {
		keys = make(map[string][]time.Time)
		l.requests[endpointID] = keys
	}

	recent := prune(keys[limitKey], now.Add(-rule.Window))
	if len(recent) < rule.MaxRequests {
		keys[limitKey] = append(recent, now)
		return true, 0
	}
	keys[limitKey] = recent

	if len(recent) == 0 {
		return false, retryAfter(rule.Window, 0)
	}
	return false, retryAfter(rule.Window, now.Sub(recent[0]))
}

// Allow implements Interface. It never fails.
func (l *Limiter) Allow(_ context.Context, endpointID, limitKey string) (Decision, error) {
	allowed, retry := l.IsAllowed(endpointID, limitKey)
	return Decision{Allowed: allowed, RetryAfter: retry}, nil
}

// Stats implements Interface.
func (l *Limiter) Stats(_ context.Context, endpointID string) (Stats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rule, limited := l.rules[endpointID]
	window := DefaultWindow
	if limited {
		window = rule.Window
	}
	cutoff := l.now().Add(-window)

	stats := Stats{
		EndpointID:      endpointID,
		Limited:         limited,
		MaxRequests:     rule.MaxRequests,
		WindowSeconds:   int(window / time.Second),
		CurrentRequests: make(map[string]int),
	}
	for key, timestamps := range l.requests[endpointID] {
		n := 0
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				n++
			}
		}
		stats.CurrentRequests[key] = n
	}
	return stats, nil
}

// sweepLocked drops timestamps outside their endpoint's current window from
// every tracked key, at most once per cleanup interval. Keys left empty are
// removed so abandoned clients do not accumulate.
func (l *Limiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastCleanup) < l.cleanupInterval {
		return
	}

	removed := 0
	for endpointID, keys := range l.requests {
		window := DefaultWindow
		if rule, ok := l.rules[endpointID]; ok {
			window = rule.Window
		}
		cutoff := now.Add(-window)
		for key, timestamps := range keys {
			recent := prune(timestamps, cutoff)
			if len(recent) == 0 {
				delete(keys, key)
				removed++
				continue
			}
			keys[key] = recent
		}
		if len(keys) == 0 {
			delete(l.requests, endpointID)
		}
	}
	l.lastCleanup = now

	if removed > 0 {
		l.logger.Debug("rate limiter sweep removed idle keys", zap.Int("removed", removed))
	}
}

// prune returns the timestamps strictly after cutoff. Timestamps are kept in
// insertion order so the survivors are a suffix.
func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(timestamps) && !timestamps[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return timestamps
	}
	return append(timestamps[:0:0], timestamps[i:]...)
}
