// Package cache provides a small Redis-backed read cache for spot list and
// detail responses. Every write to a spot invalidates the affected keys, so
// clients never see a stale row for longer than one round-trip.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	allSpotsKey    = "spots:all"
	ownerKeyFmt    = "spots:owner:%d"
	detailKeyFmt   = "spots:detail:%d"
	ownerKeyScan   = "spots:owner:*"
	defaultScanCnt = 100
)

// Cache wraps a Redis client. A nil *Cache is a valid no-op cache, which
// keeps the handlers free of enabled/disabled branching.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and pings it once. Returns an error when the server
// is unreachable so callers can decide to run without caching.
func New(addr, password string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// GetJSON loads a cached value into dest. The bool reports a hit.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetJSON stores a value under key for the configured TTL. Failures are
// swallowed: a cache write must never fail a request.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}

// AllSpotsKey is the cache key for the unfiltered listing.
func AllSpotsKey() string { return allSpotsKey }

// OwnerKey is the cache key for a user's own listing view.
func OwnerKey(ownerID uint) string { return fmt.Sprintf(ownerKeyFmt, ownerID) }

// DetailKey is the cache key for one spot's detail response.
func DetailKey(spotID uint) string { return fmt.Sprintf(detailKeyFmt, spotID) }

// InvalidateSpot drops every key that could embed the given spot: the
// global list, the owner's list and the detail entry.
func (c *Cache) InvalidateSpot(ctx context.Context, spotID, ownerID uint) {
	if c == nil {
		return
	}
	c.client.Del(ctx, allSpotsKey, OwnerKey(ownerID), DetailKey(spotID))
}

// Flush drops every spot key. Used by the daily maintenance job after bulk
// changes.
func (c *Cache) Flush(ctx context.Context) {
	if c == nil {
		return
	}
	keys := []string{allSpotsKey}
	iter := c.client.Scan(ctx, 0, ownerKeyScan, defaultScanCnt).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	iter = c.client.Scan(ctx, 0, "spots:detail:*", defaultScanCnt).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	c.client.Del(ctx, keys...)
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
