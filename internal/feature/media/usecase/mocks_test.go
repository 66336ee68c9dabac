package usecase

import (
	"context"
	"io"
	"time"

	"event_backend/internal/feature/media/domain/entity"
)

// mockObjectStorage is a mock implementation of the ObjectStorage interface.
type mockObjectStorage struct {
	PutFunc    func(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	DeleteFunc func(ctx context.Context, key string) error
}

func (m *mockObjectStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, body, size, contentType)
	}
	_, err := io.Copy(io.Discard, body)
	return err
}

func (m *mockObjectStorage) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *mockObjectStorage) URL(key string) string {
	return "https://storage.example.com/media/" + key
}

// mockIntentRepository is a mock implementation of the IntentRepository interface.
type mockIntentRepository struct {
	CreateFunc        func(ctx context.Context, intent *entity.UploadIntent) error
	DeleteByURLsFunc  func(ctx context.Context, urls []string) error
	ListOlderThanFunc func(ctx context.Context, cutoff time.Time, limit int) ([]entity.UploadIntent, error)
	DeleteFunc        func(ctx context.Context, id uint) error
}

func (m *mockIntentRepository) Create(ctx context.Context, intent *entity.UploadIntent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, intent)
	}
	return nil
}

func (m *mockIntentRepository) DeleteByURLs(ctx context.Context, urls []string) error {
	if m.DeleteByURLsFunc != nil {
		return m.DeleteByURLsFunc(ctx, urls)
	}
	return nil
}

func (m *mockIntentRepository) ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]entity.UploadIntent, error) {
	if m.ListOlderThanFunc != nil {
		return m.ListOlderThanFunc(ctx, cutoff, limit)
	}
	return nil, nil
}

func (m *mockIntentRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// mockRateLimiter counts WaitIfNeeded calls.
type mockRateLimiter struct {
	calls int
}

func (m *mockRateLimiter) WaitIfNeeded() { m.calls++ }

// mockReferenceChecker is a mock implementation of the ReferenceChecker interface.
type mockReferenceChecker struct {
	IsReferencedFunc func(ctx context.Context, url string) (bool, error)
}

func (m *mockReferenceChecker) IsReferenced(ctx context.Context, url string) (bool, error) {
	if m.IsReferencedFunc != nil {
		return m.IsReferencedFunc(ctx, url)
	}
	return false, nil
}
