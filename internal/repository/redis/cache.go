package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"linktrack/internal/domain"
	"linktrack/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// Cache provides link caching using Redis, implementing the cache-aside
// pattern for the hot slug lookup path:
// 1. Check cache first
// 2. If miss, get from database
// 3. Store in cache for next time
// Funnel events and chat messages are never cached - both are append-only
// logs where the reader must see every completed write.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a new Redis cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

func linkKey(slug string) string {
	return fmt.Sprintf("link:%s", slug)
}

// GetLink retrieves a link from cache by slug.
// Returns (nil, nil) on a cache miss - a miss is not an error.
func (c *Cache) GetLink(ctx context.Context, slug string) (*domain.TrackableLink, error) {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	}()

	data, err := c.client.Get(ctx, linkKey(slug)).Result()
	if err == redis.Nil {
		metrics.RecordCacheMiss()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	metrics.RecordCacheHit()

	var link domain.TrackableLink
	if err := json.Unmarshal([]byte(data), &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached link: %w", err)
	}

	return &link, nil
}

// SetLink stores a link in cache under its slug.
func (c *Cache) SetLink(ctx context.Context, link *domain.TrackableLink) error {
	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}

	// TTL keeps the cache bounded and evicts stale entries on its own.
	if err := c.client.Set(ctx, linkKey(link.Slug), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}

	return nil
}

// DeleteLink removes a link from cache. Called when the owning creator
// deletes the link so a stale entry never outlives the record.
func (c *Cache) DeleteLink(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, linkKey(slug)).Err(); err != nil {
		return fmt.Errorf("redis delete error: %w", err)
	}

	return nil
}

// InitRedis creates a new Redis client and verifies connectivity.
func InitRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
