// Package redisclient provides Redis key pattern definitions for the reseller API.
package redisclient

import "fmt"

// RedisPrefix is the prefix for all Redis keys owned by the reseller API
const RedisPrefix = "reseller:"

// RateLimitKey returns the sorted-set key holding request timestamps for one
// (endpoint, limit key) pair
func RateLimitKey(endpointID, limitKey string) string {
	return fmt.Sprintf("%sratelimit:%s:%s", RedisPrefix, endpointID, limitKey)
}

// RateLimitEndpointPrefix returns the common prefix of every rate-limit key
// for an endpoint
func RateLimitEndpointPrefix(endpointID string) string {
	return fmt.Sprintf("%sratelimit:%s:", RedisPrefix, endpointID)
}

// RateLimitPattern returns the SCAN pattern matching every key of an endpoint
func RateLimitPattern(endpointID string) string {
	return RateLimitEndpointPrefix(endpointID) + "*"
}
