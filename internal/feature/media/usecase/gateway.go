// Package usecase implements the media upload gateway and the orphaned-object reconciler.
package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"event_backend/internal/feature/media/domain"
	"event_backend/internal/feature/media/domain/entity"
)

// ObjectStorage abstracts the external object storage service.
type ObjectStorage interface {
	// Put stores size bytes read from body under key.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Delete removes the object stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL of the object stored under key.
	URL(key string) string
}

// IntentRepository persists write-ahead upload intents.
type IntentRepository interface {
	Create(ctx context.Context, intent *entity.UploadIntent) error
	DeleteByURLs(ctx context.Context, urls []string) error
	ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]entity.UploadIntent, error)
	Delete(ctx context.Context, id uint) error
}

// Gateway uploads media to object storage and returns durable URLs.
type Gateway struct {
	storage ObjectStorage
	intents IntentRepository
	newKey  func(folder string) string
}

// NewGateway creates a Gateway.
func NewGateway(storage ObjectStorage, intents IntentRepository) *Gateway {
	return &Gateway{
		storage: storage,
		intents: intents,
		newKey:  NewObjectKey,
	}
}

// NewObjectKey returns a collision-free key of the form "<folder>/<uuid>".
// The key carries no extension so that KeyFromURL can invert it exactly.
func NewObjectKey(folder string) string {
	return folder + "/" + uuid.NewString()
}

// KeyFromURL derives the object key from a URL returned by the gateway:
// the query and fragment are dropped, the last path segment is taken and
// everything from its first '.' on is stripped.
func KeyFromURL(folder, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidMediaURL, err)
	}
	base := path.Base(u.Path)
	stem, _, _ := strings.Cut(base, ".")
	if stem == "" || stem == "/" {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidMediaURL, rawURL)
	}
	return folder + "/" + stem, nil
}

// UploadBytes uploads a buffered file into folder and returns its URL.
func (g *Gateway) UploadBytes(ctx context.Context, folder string, up entity.Upload) (string, error) {
	if len(up.Data) == 0 {
		return "", domain.ErrEmptyUpload
	}
	return g.upload(ctx, folder, bytes.NewReader(up.Data), int64(len(up.Data)), up.ContentType)
}

// UploadFiles uploads disk-staged files one after another and returns their
// URLs in input order. The first failure aborts the batch; objects uploaded
// before it keep their pending intents and are left to the reconciler.
func (g *Gateway) UploadFiles(ctx context.Context, folder string, files []entity.StagedFile) ([]string, error) {
	urls := make([]string, 0, len(files))
	for i, f := range files {
		u, err := g.uploadStaged(ctx, folder, f)
		if err != nil {
			slog.Warn("attachment upload aborted", "index", i, "filename", f.Filename, "uploaded", len(urls), "error", err)
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

func (g *Gateway) uploadStaged(ctx context.Context, folder string, f entity.StagedFile) (string, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("open staged file %s: %w", f.Filename, err)
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return "", fmt.Errorf("stat staged file %s: %w", f.Filename, err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%s: %w", f.Filename, domain.ErrEmptyUpload)
	}
	return g.upload(ctx, folder, fh, info.Size(), f.ContentType)
}

func (g *Gateway) upload(ctx context.Context, folder string, body io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := g.newKey(folder)
	objectURL := g.storage.URL(key)

	// 先に記録を書いてからアップロードする（失敗時も孤立オブジェクトを追跡できるように）
	if err := g.intents.Create(ctx, &entity.UploadIntent{ObjectKey: key, URL: objectURL}); err != nil {
		return "", fmt.Errorf("record upload intent: %w", err)
	}
	if err := g.storage.Put(ctx, key, body, size, contentType); err != nil {
		return "", fmt.Errorf("%w: put %s: %w", domain.ErrUploadFailed, key, err)
	}
	slog.Debug("object uploaded", "key", key, "size", size)
	return objectURL, nil
}

// Delete removes the object referenced by a URL previously returned for folder.
func (g *Gateway) Delete(ctx context.Context, folder, objectURL string) error {
	key, err := KeyFromURL(folder, objectURL)
	if err != nil {
		return err
	}
	if err := g.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: delete %s: %w", domain.ErrUploadFailed, key, err)
	}
	return nil
}

// Commit marks the objects behind urls as owned by a persisted record.
func (g *Gateway) Commit(ctx context.Context, urls ...string) error {
	if len(urls) == 0 {
		return nil
	}
	if err := g.intents.DeleteByURLs(ctx, urls); err != nil {
		return fmt.Errorf("commit upload intents: %w", err)
	}
	return nil
}
