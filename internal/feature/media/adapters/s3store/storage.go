// Package s3store はS3互換オブジェクトストレージ（AWS S3 / MinIO）を使った ObjectStorage 実装を提供します。
package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"event_backend/internal/feature/media/usecase"
	"event_backend/internal/platform/config"
)

// Config はオブジェクトストレージ接続設定を保持します。
type Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string // 例: "http://minio:9000"。空の場合はAWSの標準エンドポイント
	AccessKey    string
	SecretKey    string
	// PublicBaseURL は返却するURLのベースです。空の場合は BaseEndpoint を使用します。
	PublicBaseURL string
	UsePathStyle  bool
	Timeout       time.Duration
}

// LoadConfig は環境変数からストレージ設定を読み込みます。
func LoadConfig() Config {
	return Config{
		Bucket:        config.GetEnv("S3_BUCKET", "event-media"),
		Region:        config.GetEnv("S3_REGION", "us-east-1"),
		BaseEndpoint:  config.GetEnv("S3_BASE_ENDPOINT", ""),
		AccessKey:     config.GetEnv("S3_ROOT_USER", ""),
		SecretKey:     config.GetEnv("S3_ROOT_PASSWORD", ""),
		PublicBaseURL: config.GetEnv("S3_PUBLIC_BASE_URL", ""),
		UsePathStyle:  config.GetEnvBool("S3_USE_PATH_STYLE", true),
		Timeout:       config.GetEnvDuration("STORAGE_TIMEOUT", 30*time.Second),
	}
}

// Validate は必須項目が揃っているかを確認します。
func (c Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3_BUCKET is required")
	}
	if c.BaseEndpoint == "" && c.PublicBaseURL == "" {
		return errors.New("S3_BASE_ENDPOINT or S3_PUBLIC_BASE_URL is required")
	}
	return nil
}

// ObjectAPI は使用するS3 APIのサブセットです。*s3.Client が満たします。
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewClient は静的クレデンシャルとエンドポイント上書きでS3クライアントを生成します。
// httpClient にはタイムアウト付きのクライアントを渡すこと。
func NewClient(ctx context.Context, cfg Config, httpClient *http.Client) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(httpClient),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return client, nil
}

// Storage は usecase.ObjectStorage のS3実装です。
type Storage struct {
	api     ObjectAPI
	bucket  string
	baseURL string
}

var _ usecase.ObjectStorage = (*Storage)(nil)

// NewStorage は Storage を生成します。
func NewStorage(api ObjectAPI, cfg Config) *Storage {
	base := cfg.PublicBaseURL
	if base == "" {
		base = cfg.BaseEndpoint
	}
	return &Storage{
		api:     api,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(base, "/"),
	}
}

// Put はオブジェクトをアップロードします。
func (s *Storage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	return err
}

// Delete はオブジェクトを削除します。S3は存在しないキーの削除も成功として扱います。
func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// URL は "<base>/<bucket>/<key>" 形式の公開URLを返します。
func (s *Storage) URL(key string) string {
	return s.baseURL + "/" + s.bucket + "/" + key
}

// Ping はバケットへの疎通を確認します（readiness 用）。
// HeadBucket は ObjectAPI に含まれないため、*s3.Client の場合のみ実行します。
func (s *Storage) Ping(ctx context.Context) error {
	client, ok := s.api.(*s3.Client)
	if !ok {
		return nil
	}
	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
