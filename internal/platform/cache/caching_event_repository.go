// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"event_backend/internal/feature/events/domain/entity"
	"event_backend/internal/feature/events/usecase"
)

// CachingEventRepository decorates an EventRepository with Redis caching.
// Only list reads are cached; any write drops every key in the namespace.
type CachingEventRepository struct {
	inner     usecase.EventRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.EventRepository = (*CachingEventRepository)(nil)

// NewCachingEventRepository decorates an EventRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "events".
// A nil rdb disables caching entirely.
func NewCachingEventRepository(rdb *redis.Client, ttl time.Duration, inner usecase.EventRepository, namespace string) *CachingEventRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "events"
	}
	return &CachingEventRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create persists the event and invalidates the list caches.
func (c *CachingEventRepository) Create(ctx context.Context, event *entity.Event) error {
	if err := c.inner.Create(ctx, event); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// DeleteByEventID deletes the event and invalidates the list caches.
func (c *CachingEventRepository) DeleteByEventID(ctx context.Context, eventID string) error {
	if err := c.inner.DeleteByEventID(ctx, eventID); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// ListAll returns all events, checking the cache first.
func (c *CachingEventRepository) ListAll(ctx context.Context) ([]entity.Event, error) {
	return c.cached(ctx, c.allKey(), func() ([]entity.Event, error) {
		return c.inner.ListAll(ctx)
	})
}

// ListByCreator returns a creator's events, checking the cache first.
func (c *CachingEventRepository) ListByCreator(ctx context.Context, email string) ([]entity.Event, error) {
	return c.cached(ctx, c.creatorKey(email), func() ([]entity.Event, error) {
		return c.inner.ListByCreator(ctx, email)
	})
}

// cached implements read-through caching for a single key.
func (c *CachingEventRepository) cached(ctx context.Context, key string, load func() ([]entity.Event, error)) ([]entity.Event, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return load()
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Event
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := load()
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// invalidate drops every cached list. Failures only leave entries to expire by TTL.
func (c *CachingEventRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.deleteByPattern(ctx, c.namespace+":*"); err != nil {
		slog.Warn("event cache invalidation failed", "namespace", c.namespace, "error", err)
	}
}

func (c *CachingEventRepository) allKey() string {
	return c.namespace + ":all"
}

// creatorKey hashes the email so that distinct creators never share a key
// and the key never carries SCAN pattern characters.
func (c *CachingEventRepository) creatorKey(email string) string {
	sum := sha256.Sum256([]byte(email))
	return c.namespace + ":creator:" + hex.EncodeToString(sum[:])
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingEventRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

