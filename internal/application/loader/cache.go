package loader

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"nemostore-eda/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache memoizes raw snapshots by source key. Implementations must not hand
// out data a caller could mutate behind another caller's back; Loader clones
// on every hit as well.
type Cache interface {
	Get(ctx context.Context, key string) (*domain.RawDataset, bool)
	Set(ctx context.Context, key string, ds *domain.RawDataset)
	Delete(ctx context.Context, key string)
}

type memoryEntry struct {
	ds      *domain.RawDataset
	expires time.Time
}

// MemoryCache is the in-process Cache. A zero TTL never expires entries.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*domain.RawDataset, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.ds.Clone(), true
}

func (c *MemoryCache) Set(_ context.Context, key string, ds *domain.RawDataset) {
	e := memoryEntry{ds: ds.Clone()}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.sweepLocked()
	c.entries[key] = e
	c.mu.Unlock()
}

// sweepLocked drops every expired entry. Uploads are often never looked up
// again, so expiry cannot rely on Get alone.
func (c *MemoryCache) sweepLocked() {
	if c.ttl <= 0 {
		return
	}
	now := c.now()
	for k, e := range c.entries {
		if !e.expires.IsZero() && now.After(e.expires) {
			delete(c.entries, k)
		}
	}
}

func (c *MemoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RedisKeyPrefix namespaces snapshot keys in a shared Redis.
const RedisKeyPrefix = "nemostore:raw:"

// RedisCache stores snapshots as JSON with a TTL. Redis errors are logged and
// treated as misses; the loader then reads the source directly.
type RedisCache struct {
	Rdb *redis.Client
	TTL time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Rdb: rdb, TTL: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*domain.RawDataset, bool) {
	b, err := c.Rdb.Get(ctx, RedisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("cache: redis get failed")
		}
		return nil, false
	}
	var ds domain.RawDataset
	if err := json.Unmarshal(b, &ds); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: corrupt entry dropped")
		c.Delete(ctx, key)
		return nil, false
	}
	return &ds, true
}

func (c *RedisCache) Set(ctx context.Context, key string, ds *domain.RawDataset) {
	b, err := json.Marshal(ds)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: snapshot not encodable, skipping")
		return
	}
	if err := c.Rdb.Set(ctx, RedisKeyPrefix+key, b, c.TTL).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: redis set failed")
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.Rdb.Del(ctx, RedisKeyPrefix+key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: redis del failed")
	}
}

// Ping reports whether the backing Redis answers.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Rdb.Ping(ctx).Err()
}
