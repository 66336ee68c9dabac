// Package db はPostgreSQLへのGORM接続の確立とマイグレーションを提供します。
package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"event_backend/internal/platform/config"
)

// retryInterval は接続リトライの間隔です。テストから短縮できるよう変数にしています。
var retryInterval = 3 * time.Second

// Config はデータベース接続設定を保持します。
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string
	TimeZone string
	// InstanceName が設定されている場合、Cloud SQL の Unix ソケット経由で接続します。
	InstanceName string
}

// Opener はDSNからGORM接続を開く関数です。テストではモックに差し替えます。
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		User:         config.GetEnv("DB_USER", "postgres"),
		Password:     config.GetEnv("DB_PASSWORD", ""),
		Name:         config.GetEnv("DB_NAME", "events"),
		Host:         config.GetEnv("DB_HOST", "localhost"),
		Port:         config.GetEnv("DB_PORT", "5432"),
		SSLMode:      config.GetEnv("DB_SSLMODE", "disable"),
		TimeZone:     config.GetEnv("DB_TIMEZONE", "UTC"),
		InstanceName: config.GetEnv("INSTANCE_CONNECTION_NAME", ""),
	}
}

// BuildDSN は設定から pgx 形式（key=value）のDSN文字列を生成します。
// InstanceName が設定されている場合は Host/Port より優先されます。
func BuildDSN(cfg Config) string {
	parts := []string{
		"user=" + cfg.User,
		"password=" + cfg.Password,
		"dbname=" + cfg.Name,
	}
	if cfg.InstanceName != "" {
		parts = append(parts, "host=/cloudsql/"+cfg.InstanceName)
	} else {
		parts = append(parts, "host="+cfg.Host, "port="+cfg.Port)
	}
	if cfg.SSLMode != "" {
		parts = append(parts, "sslmode="+cfg.SSLMode)
	}
	if cfg.TimeZone != "" {
		parts = append(parts, "TimeZone="+cfg.TimeZone)
	}
	return strings.Join(parts, " ")
}

// PostgresOpener は pgx ベースの postgres ドライバで接続を開きます。
// TranslateError により一意制約違反は gorm.ErrDuplicatedKey に変換されます。
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

// ConnectWithRetry は timeout に達するまで retryInterval 間隔で接続を試行します。
// コンテナ起動直後などDBの準備が整っていない場合に対応するためのものです。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenDB は環境変数の設定でPostgreSQLに接続します。
func OpenDB() (*gorm.DB, error) {
	cfg := LoadConfigFromEnv()
	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, PostgresOpener)
	if err != nil {
		return nil, err
	}
	slog.Info("DB connection successful", "host", cfg.Host, "database", cfg.Name)
	return db, nil
}

// Migrate は渡されたモデルのテーブルを AutoMigrate します。
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
