package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	eventadapters "event_backend/internal/feature/events/adapters"
	eventusecase "event_backend/internal/feature/events/usecase"
	"event_backend/internal/platform/cache"
)

// NewEventRepository creates an EventRepository implementation.
// If Redis is available, list reads are cached in Redis.
// Otherwise, every read goes to the database.
func NewEventRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) eventusecase.EventRepository {
	repo := eventadapters.NewEventRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingEventRepository(rdb, ttl, repo, "events")
}
