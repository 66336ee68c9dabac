package s3store

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event_backend/internal/feature/media/usecase"
)

// fakeObjectAPI はS3 APIのテスト用実装です。
type fakeObjectAPI struct {
	putFn    func(ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error)
	deleteFn func(ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error)
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putFn != nil {
		return f.putFn(ctx, in)
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, in)
	}
	return &s3.DeleteObjectOutput{}, nil
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("S3_BUCKET", "media")
	t.Setenv("S3_REGION", "eu-central-1")
	t.Setenv("S3_BASE_ENDPOINT", "http://minio:9000")
	t.Setenv("S3_ROOT_USER", "minio")
	t.Setenv("S3_ROOT_PASSWORD", "minio123")
	t.Setenv("S3_PUBLIC_BASE_URL", "")
	t.Setenv("S3_USE_PATH_STYLE", "")
	t.Setenv("STORAGE_TIMEOUT", "10s")

	cfg := LoadConfig()

	assert.Equal(t, Config{
		Bucket:       "media",
		Region:       "eu-central-1",
		BaseEndpoint: "http://minio:9000",
		AccessKey:    "minio",
		SecretKey:    "minio123",
		UsePathStyle: true,
		Timeout:      10 * time.Second,
	}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, Config{BaseEndpoint: "http://minio:9000"}.Validate())
	assert.Error(t, Config{Bucket: "media"}.Validate())
	assert.NoError(t, Config{Bucket: "media", PublicBaseURL: "https://cdn.example.com"}.Validate())
}

func TestStorage_URL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      Config
		expected string
	}{
		{
			name:     "endpoint base",
			cfg:      Config{Bucket: "media", BaseEndpoint: "http://minio:9000/"},
			expected: "http://minio:9000/media/event_images/abc",
		},
		{
			name:     "public base takes precedence",
			cfg:      Config{Bucket: "media", BaseEndpoint: "http://minio:9000", PublicBaseURL: "https://cdn.example.com"},
			expected: "https://cdn.example.com/media/event_images/abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewStorage(&fakeObjectAPI{}, tt.cfg)
			assert.Equal(t, tt.expected, s.URL("event_images/abc"))
		})
	}
}

// TestStorage_URLRoundTrip は返却URLからゲートウェイが同じキーを導出できることを検証します。
func TestStorage_URLRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewStorage(&fakeObjectAPI{}, Config{Bucket: "media", PublicBaseURL: "https://cdn.example.com"})
	key := usecase.NewObjectKey("profile_pictures")

	got, err := usecase.KeyFromURL("profile_pictures", s.URL(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestStorage_Put(t *testing.T) {
	t.Parallel()

	var got *s3.PutObjectInput
	var body string
	api := &fakeObjectAPI{
		putFn: func(ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
			got = in
			b, err := io.ReadAll(in.Body)
			require.NoError(t, err)
			body = string(b)
			return &s3.PutObjectOutput{}, nil
		},
	}
	s := NewStorage(api, Config{Bucket: "media", BaseEndpoint: "http://minio:9000"})

	err := s.Put(context.Background(), "event_images/abc", strings.NewReader("payload"), 7, "image/png")

	require.NoError(t, err)
	assert.Equal(t, "media", aws.ToString(got.Bucket))
	assert.Equal(t, "event_images/abc", aws.ToString(got.Key))
	assert.Equal(t, int64(7), aws.ToInt64(got.ContentLength))
	assert.Equal(t, "image/png", aws.ToString(got.ContentType))
	assert.Equal(t, "payload", body)
}

func TestStorage_PutError(t *testing.T) {
	t.Parallel()

	apiErr := errors.New("SlowDown")
	api := &fakeObjectAPI{
		putFn: func(ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
			return nil, apiErr
		},
	}
	s := NewStorage(api, Config{Bucket: "media", BaseEndpoint: "http://minio:9000"})

	err := s.Put(context.Background(), "k", strings.NewReader("x"), 1, "text/plain")
	assert.ErrorIs(t, err, apiErr)
}

func TestStorage_Delete(t *testing.T) {
	t.Parallel()

	var got *s3.DeleteObjectInput
	api := &fakeObjectAPI{
		deleteFn: func(ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
			got = in
			return &s3.DeleteObjectOutput{}, nil
		},
	}
	s := NewStorage(api, Config{Bucket: "media", BaseEndpoint: "http://minio:9000"})

	require.NoError(t, s.Delete(context.Background(), "profile_pictures/abc"))
	assert.Equal(t, "media", aws.ToString(got.Bucket))
	assert.Equal(t, "profile_pictures/abc", aws.ToString(got.Key))
}

func TestStorage_PingSkipsFakes(t *testing.T) {
	t.Parallel()

	s := NewStorage(&fakeObjectAPI{}, Config{Bucket: "media"})
	assert.NoError(t, s.Ping(context.Background()))
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Bucket:       "media",
		Region:       "us-east-1",
		BaseEndpoint: "http://minio:9000",
		AccessKey:    "minio",
		SecretKey:    "minio123",
		UsePathStyle: true,
	}

	client, err := NewClient(context.Background(), cfg, &http.Client{Timeout: time.Second})
	require.NoError(t, err)

	opts := client.Options()
	assert.Equal(t, "us-east-1", opts.Region)
	assert.Equal(t, "http://minio:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)

	creds, err := opts.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "minio", creds.AccessKeyID)
}
