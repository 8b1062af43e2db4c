package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-wanderlust-places/app/observability/metrics"
)

const (
	DefaultTTL             = 24 * time.Hour
	DefaultCleanupInterval = 1 * time.Hour
)

// Cache is a process-lifetime key/value store with a fixed TTL.
// An entry older than the TTL is never returned; the janitor drops it later.
// There is no capacity bound.
type Cache struct {
	store *gocache.Cache
	ttl   time.Duration
}

// New builds a cache. A cleanupInterval <= 0 disables the background janitor;
// expired entries are then only skipped on read.
func New(ttl, cleanupInterval time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Set stores value under key, replacing any previous entry and restarting its TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// Get returns the value stored under key, or false when it is absent or expired.
func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.store.Get(key)
	result := "miss"
	if ok {
		result = "hit"
	}
	metrics.Get().CacheLookupsTotal.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("result", result)))
	return v, ok
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.store.Flush()
}

// Len counts stored entries, including expired ones the janitor has not removed yet.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Getter is satisfied by *Cache and by the narrower stores services depend on.
type Getter interface {
	Get(key string) (any, bool)
}

// GetAs is Get with a type assertion. A value of another type counts as a miss.
func GetAs[T any](c Getter, key string) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
