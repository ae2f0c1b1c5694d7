// Package cache implements C11: a short-TTL cache in front of C1's pool
// reads, backed by Redis with an in-memory fallback, generalized from the
// teacher's pair cache to cache PoolState snapshots.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
)

// Cache defines the pool-state caching operations C6's reads go through.
type Cache interface {
	GetPoolState(ctx context.Context, key string) (*entities.PoolState, error)
	SetPoolState(ctx context.Context, key string, state *entities.PoolState, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PoolStateKey builds the cache key for one venue's pool snapshot.
func PoolStateKey(dex entities.DEXType, pool string) string {
	return fmt.Sprintf("pool:%s:%s", dex, pool)
}

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache dials addr and verifies connectivity before returning.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) GetPoolState(ctx context.Context, key string) (*entities.PoolState, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var state entities.PoolState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *RedisCache) SetPoolState(ctx context.Context, key string, state *entities.PoolState, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// InMemoryCache implements Cache without an external dependency, used when
// REDIS_ADDR isn't configured. A single instance is shared across all three
// venue adapters' CachingAdapter, each driven by its own orchestrator's
// per-pair fan-out goroutines, so entries is guarded by mu.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*cachedEntry
}

type cachedEntry struct {
	state     *entities.PoolState
	expiresAt time.Time
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{entries: make(map[string]*cachedEntry)}
}

func (c *InMemoryCache) GetPoolState(ctx context.Context, key string) (*entities.PoolState, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if time.Now().Before(e.expiresAt) {
		return e.state, nil
	}
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil, nil
}

func (c *InMemoryCache) SetPoolState(ctx context.Context, key string, state *entities.PoolState, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = &cachedEntry{state: state, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}
