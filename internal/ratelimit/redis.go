package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"media-reseller-go/internal/redisclient"
)

// Lua script for an atomic sliding-window check.
//
//	KEYS[1] = sorted set of request timestamps (ms) for one (endpoint, key)
//	ARGV[1] = now (ms)
//	ARGV[2] = cutoff (ms); members scored at or below it are expired
//	ARGV[3] = window (ms), used as the key TTL
//	ARGV[4] = max requests
//	ARGV[5] = unique member for this request
//
// Returns {1, 0} when admitted, {0, oldest_score} when denied.
const slidingWindowScript = `
local key = KEYS[1]

redis.call('ZREMRANGEBYSCORE', key, '-inf', ARGV[2])

local count = redis.call('ZCARD', key)
if count < tonumber(ARGV[4]) then
    redis.call('ZADD', key, ARGV[1], ARGV[5])
    redis.call('PEXPIRE', key, ARGV[3])
    return {1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if #oldest == 0 then
    return {0, ARGV[1]}
end
return {0, oldest[2]}
`

// RedisLimiter shares request logs across replicas through Redis sorted
// sets. Rules stay in process memory; each key expires one window after its
// last admitted request, so no sweep is needed.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
	logger *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	rules map[string]Rule
}

// RedisOption configures a RedisLimiter.
type RedisOption func(*RedisLimiter)

// WithRedisClock replaces time.Now, for tests.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(l *RedisLimiter) {
		l.now = now
	}
}

// NewRedisLimiter creates a limiter backed by client.
func NewRedisLimiter(client *redis.Client, logger *zap.Logger, opts ...RedisOption) *RedisLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &RedisLimiter{
		client: client,
		script: redis.NewScript(slidingWindowScript),
		logger: logger,
		now:    time.Now,
		rules:  make(map[string]Rule),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetLimit registers or replaces the rule for endpointID.
func (l *RedisLimiter) SetLimit(endpointID string, maxRequests int, window time.Duration) {
	if window <= 0 {
		window = DefaultWindow
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rules[endpointID] = Rule{EndpointID: endpointID, MaxRequests: maxRequests, Window: window}
}

func (l *RedisLimiter) rule(endpointID string) (Rule, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.rules[endpointID]
	return r, ok
}

// Allow checks and records one request. Redis failures are returned to the
// caller, which decides whether to fail open.
func (l *RedisLimiter) Allow(ctx context.Context, endpointID, limitKey string) (Decision, error) {
	rule, ok := l.rule(endpointID)
	if !ok {
		return Decision{Allowed: true}, nil
	}
	limitKey = normalizeKey(limitKey)

	now := l.now()
	nowMs := now.UnixMilli()
	windowMs := rule.Window.Milliseconds()
	member := fmt.Sprintf("%d-%s", nowMs, uuid.NewString())

	res, err := l.script.Run(ctx, l.client,
		[]string{redisclient.RateLimitKey(endpointID, limitKey)},
		nowMs, nowMs-windowMs, windowMs, rule.MaxRequests, member,
	).Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit check failed: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("rate limit check failed: unexpected reply %v", res)
	}

	if admitted, _ := res[0].(int64); admitted == 1 {
		return Decision{Allowed: true}, nil
	}

	oldestMs, err := parseScore(res[1])
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit check failed: %w", err)
	}
	sinceOldest := time.Duration(nowMs-oldestMs) * time.Millisecond

	l.logger.Debug("rate limit exceeded",
		zap.String("endpoint", endpointID),
		zap.String("key", limitKey),
	)
	return Decision{Allowed: false, RetryAfter: retryAfter(rule.Window, sinceOldest)}, nil
}

// Stats counts live entries per key by scanning the endpoint's keys.
func (l *RedisLimiter) Stats(ctx context.Context, endpointID string) (Stats, error) {
	rule, limited := l.rule(endpointID)
	window := DefaultWindow
	if limited {
		window = rule.Window
	}
	cutoff := l.now().Add(-window).UnixMilli()

	stats := Stats{
		EndpointID:      endpointID,
		Limited:         limited,
		MaxRequests:     rule.MaxRequests,
		WindowSeconds:   int(window / time.Second),
		CurrentRequests: make(map[string]int),
	}

	prefix := redisclient.RateLimitEndpointPrefix(endpointID)
	iter := l.client.Scan(ctx, 0, redisclient.RateLimitPattern(endpointID), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		n, err := l.client.ZCount(ctx, key, "("+strconv.FormatInt(cutoff, 10), "+inf").Result()
		if err != nil {
			return Stats{}, fmt.Errorf("failed to count %s: %w", key, err)
		}
		stats.CurrentRequests[strings.TrimPrefix(key, prefix)] = int(n)
	}
	if err := iter.Err(); err != nil {
		return Stats{}, fmt.Errorf("failed to scan rate limit keys: %w", err)
	}
	return stats, nil
}

func parseScore(v interface{}) (int64, error) {
	switch s := v.(type) {
	case int64:
		return s, nil
	case string:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("bad score %q: %w", s, err)
		}
		return int64(f), nil
	default:
		return 0, fmt.Errorf("bad score type %T", v)
	}
}
