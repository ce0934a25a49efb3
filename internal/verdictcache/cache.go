// Package verdictcache provides a Redis-backed cache of moderation
// verdicts keyed by message content. The engine is deterministic, so an
// identical message always yields the identical verdict and re-scanning it
// is wasted work. Entries are stored as JSON with TTL-based expiry:
//
//	Key:   verdict:<sha256 of message text>
//	Value: serialized moderation.Result
//	TTL:   configured cache lifetime
//
// This cache is a read-through optimisation, not shared engine state: a
// miss or a Redis outage simply means a fresh scan.
package verdictcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gadgetswap/moderation/internal/moderation"
)

// KeyPrefix is the Redis key prefix for cached verdicts.
const KeyPrefix = "verdict:"

// DefaultTTL is how long a cached verdict lives. Verdicts only change when
// the catalog changes, which is a deploy, so the TTL mostly bounds memory.
const DefaultTTL = 15 * time.Minute

// Cache stores moderation verdicts in Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a verdict cache using the provided Redis client. A zero ttl
// means DefaultTTL.
func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Key derives the cache key for a message text. Hashing keeps message
// content out of Redis keyspace listings and bounds key size.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return KeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached verdict for text, if any. The second return value
// reports whether there was a hit. Redis errors are returned so the caller
// can count them, but the recommended policy is fail-open: on error, scan.
func (c *Cache) Get(ctx context.Context, text string) (moderation.Result, bool, error) {
	data, err := c.client.Get(ctx, Key(text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return moderation.Result{}, false, nil
	}
	if err != nil {
		return moderation.Result{}, false, fmt.Errorf("verdictcache: get: %w", err)
	}

	var res moderation.Result
	if err := json.Unmarshal(data, &res); err != nil {
		// A corrupt entry is a miss, not a failure.
		return moderation.Result{}, false, nil
	}
	return res, true, nil
}

// Put stores a verdict for text with the configured TTL.
func (c *Cache) Put(ctx context.Context, text string, res moderation.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("verdictcache: marshal: %w", err)
	}
	if err := c.client.Set(ctx, Key(text), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("verdictcache: set: %w", err)
	}
	return nil
}
