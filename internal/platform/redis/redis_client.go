package redis

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"event_backend/internal/platform/config"
)

// Config はRedis接続設定を保持します。
type Config struct {
	Host        string
	Port        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Addr は host:port 形式のアドレスを返します。
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// LoadConfig は環境変数からRedis設定を読み込みます。
func LoadConfig() Config {
	return Config{
		Host:        config.GetEnv("REDIS_HOST", "localhost"),
		Port:        config.GetEnv("REDIS_PORT", "6379"),
		Password:    config.GetEnv("REDIS_PASSWORD", ""),
		DB:          config.GetEnvInt("REDIS_DB", 0),
		DialTimeout: config.GetEnvDuration("REDIS_DIAL_TIMEOUT", 3*time.Second),
	}
}

// NewRedisClient はRedisクライアントを生成し、PINGで疎通を確認します。
// 接続できない場合はクライアントを閉じてエラーを返します。呼び出し側はキャッシュなしで動作を継続できます。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", cfg.Addr(), "error", err)
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr(), err)
	}

	slog.Info("Redis connection successful", "address", cfg.Addr())
	return rdb, nil
}
