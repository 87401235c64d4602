package domain

import (
	"context"
	"time"
)

// GlobalTenantID is used for data shared across tenants, such as the airport
// distance memoization entries.
const GlobalTenantID = "*"

// Cache defines the interface for caching operations.
// Supports two-phase caching: local LRU (Community) + Redis (Pro).
// All methods require tenantID for strict multi-tenancy isolation; global
// data uses GlobalTenantID.
type Cache interface {
	// Get retrieves a value from cache.
	// Returns nil, nil if key not found.
	Get(ctx context.Context, tenantID string, key string) ([]byte, error)

	// Set stores a value in cache with expiration.
	Set(ctx context.Context, tenantID string, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from cache.
	Delete(ctx context.Context, tenantID string, key string) error

	// GetDistance retrieves a memoized airport-pair distance.
	GetDistance(ctx context.Context, pairKey string) (*DistanceEntry, error)

	// SetDistance memoizes an airport-pair distance. The key space is bounded
	// by the airport-pair count, so entries get a long TTL and little
	// eviction pressure.
	SetDistance(ctx context.Context, pairKey string, entry *DistanceEntry) error

	// IncrementCounter atomically increments a counter and returns new value.
	// Used for claim velocity checks (repeat claims per flight in a window).
	IncrementCounter(ctx context.Context, tenantID string, key string, window time.Duration) (int64, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// DistanceEntry holds a memoized great-circle distance for an airport pair.
type DistanceEntry struct {
	Km    float64 `json:"km"`
	Miles float64 `json:"miles"`
	Valid bool    `json:"valid"`
}

// CacheConfig holds configuration for cache initialization.
type CacheConfig struct {
	// Type is the cache type: "memory" or "redis"
	Type string

	// Local LRU cache settings (Community tier)
	LocalMaxSize int
	LocalTTL     time.Duration

	// Redis settings (Pro tier)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Two-phase settings
	EnableTwoPhase bool // If true, check local first, then Redis
}
