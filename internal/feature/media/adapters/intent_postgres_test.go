package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"event_backend/internal/feature/media/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.UploadIntent{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

// seedIntent inserts an intent with an explicit creation time.
func seedIntent(t *testing.T, db *gorm.DB, key string, createdAt time.Time) *entity.UploadIntent {
	t.Helper()

	in := &entity.UploadIntent{ObjectKey: key, URL: "https://s/media/" + key, CreatedAt: createdAt}
	require.NoError(t, db.Create(in).Error, "failed to seed intent")
	return in
}

func TestNewIntentRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewIntentRepository(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestIntentPostgres_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIntentRepository(db)

	in := &entity.UploadIntent{ObjectKey: "event_images/a", URL: "https://s/media/event_images/a"}
	require.NoError(t, repo.Create(context.Background(), in))
	assert.NotZero(t, in.ID)
	assert.False(t, in.CreatedAt.IsZero())

	dup := &entity.UploadIntent{ObjectKey: "event_images/a", URL: "https://s/other"}
	assert.Error(t, repo.Create(context.Background(), dup), "object key must be unique")
}

func TestIntentPostgres_DeleteByURLs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIntentRepository(db)
	now := time.Now()

	seedIntent(t, db, "event_images/a", now)
	seedIntent(t, db, "event_images/b", now)
	seedIntent(t, db, "event_images/c", now)

	err := repo.DeleteByURLs(context.Background(), []string{
		"https://s/media/event_images/a",
		"https://s/media/event_images/c",
		"https://s/media/unknown",
	})
	require.NoError(t, err)

	var remaining []entity.UploadIntent
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "event_images/b", remaining[0].ObjectKey)

	assert.NoError(t, repo.DeleteByURLs(context.Background(), nil))
}

func TestIntentPostgres_ListOlderThan(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIntentRepository(db)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	seedIntent(t, db, "old-2", base.Add(2*time.Hour))
	seedIntent(t, db, "old-1", base.Add(time.Hour))
	seedIntent(t, db, "fresh", base.Add(48*time.Hour))

	cutoff := base.Add(24 * time.Hour)

	got, err := repo.ListOlderThan(context.Background(), cutoff, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "old-1", got[0].ObjectKey)
	assert.Equal(t, "old-2", got[1].ObjectKey)

	limited, err := repo.ListOlderThan(context.Background(), cutoff, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "old-1", limited[0].ObjectKey)
}

func TestIntentPostgres_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIntentRepository(db)

	in := seedIntent(t, db, "event_images/a", time.Now())
	require.NoError(t, repo.Delete(context.Background(), in.ID))

	var count int64
	require.NoError(t, db.Model(&entity.UploadIntent{}).Count(&count).Error)
	assert.Zero(t, count)
}
