package models

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mmdatafocus/partner_backend/config"
)

// CacheStore is the read-through accelerator in front of the store. It is
// never the source of truth: a miss or a failed write only costs latency.
type CacheStore interface {
	GetObject(ctx context.Context, key string, dest any) (bool, error)
	SetObject(ctx context.Context, key string, obj any, ttl time.Duration) error
	Remove(ctx context.Context, keys ...string) error
}

// redisCache delegates to the nil-safe config helpers, so running without a
// Redis connection degrades to store-only reads.
type redisCache struct{}

func (redisCache) GetObject(ctx context.Context, key string, dest any) (bool, error) {
	return config.GetRedisObject(key, dest)
}

func (redisCache) SetObject(ctx context.Context, key string, obj any, ttl time.Duration) error {
	return config.SetRedisObject(key, obj, ttl)
}

func (redisCache) Remove(ctx context.Context, keys ...string) error {
	return config.RemoveRedisKey(keys...)
}

// NoopCache misses every read and discards every write.
type NoopCache struct{}

func (NoopCache) GetObject(ctx context.Context, key string, dest any) (bool, error) {
	return false, nil
}

func (NoopCache) SetObject(ctx context.Context, key string, obj any, ttl time.Duration) error {
	return nil
}

func (NoopCache) Remove(ctx context.Context, keys ...string) error {
	return nil
}

var cacheStore CacheStore = redisCache{}

// SetCacheStore swaps the cache implementation and returns the previous one.
// Tests install an in-memory store; a nil argument installs NoopCache.
func SetCacheStore(store CacheStore) CacheStore {
	previous := cacheStore
	if store == nil {
		store = NoopCache{}
	}
	cacheStore = store
	return previous
}

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

// Search results are query-shaped and numerous; stats tolerate minutes of
// staleness. Both get far shorter lifetimes than partner profiles.
const (
	searchCacheTTL = 60 * time.Second
	statsCacheTTL  = 5 * time.Minute
)

func profileCacheKey(inn string) string {
	return "partner:" + inn
}

func searchCacheKey(query string, limit int) string {
	return fmt.Sprintf("search:%s:%d", query, limit)
}

func statsCacheKey(days int) string {
	return fmt.Sprintf("stats:partners:%d", days)
}
