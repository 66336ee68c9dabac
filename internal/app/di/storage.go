package di

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	mediaadapters "event_backend/internal/feature/media/adapters"
	"event_backend/internal/feature/media/adapters/s3store"
	mediausecase "event_backend/internal/feature/media/usecase"
	infrahttp "event_backend/internal/platform/http"
	"event_backend/internal/shared/ratelimiter"
)

// NewObjectStorage creates an S3-backed object storage with a timeout-bounded HTTP client.
func NewObjectStorage(ctx context.Context, cfg s3store.Config) (*s3store.Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	client, err := s3store.NewClient(ctx, cfg, httpClient)
	if err != nil {
		return nil, err
	}
	return s3store.NewStorage(client, cfg), nil
}

// NewMediaGateway creates the upload gateway that records intents in db.
func NewMediaGateway(storage mediausecase.ObjectStorage, db *gorm.DB) *mediausecase.Gateway {
	return mediausecase.NewGateway(storage, mediaadapters.NewIntentRepository(db))
}

// NewReconciler creates the orphaned-object reconciler paced at ratePerMinute deletions.
func NewReconciler(storage mediausecase.ObjectStorage, db *gorm.DB, ratePerMinute int) *mediausecase.Reconciler {
	limiter := ratelimiter.NewRateLimiter(ratePerMinute, time.Minute)
	return mediausecase.NewReconciler(
		storage,
		mediaadapters.NewIntentRepository(db),
		mediaadapters.NewReferenceChecker(db),
		limiter,
	)
}
