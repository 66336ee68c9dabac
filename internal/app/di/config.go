// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"
	"time"

	"event_backend/internal/platform/config"
)

// AppConfig はHTTPサーバーと補助ジョブの設定を保持します。
// DB・Redis・ストレージ・JWTの設定はそれぞれのパッケージの LoadConfig が読み込みます。
type AppConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	UploadDir       string
	MaxUploadBytes  int64
	CacheTTL        time.Duration
	LogLevel        slog.Level
	RunMigrations   bool

	// SweepOlderThan より古い先行記録を孤立オブジェクトとみなします。
	SweepOlderThan time.Duration
	// SweepRatePerMinute は掃除時の削除リクエストの上限です。0以下は無制限。
	SweepRatePerMinute int
}

// LoadAppConfig は環境変数からアプリケーション設定を読み込みます。
func LoadAppConfig() AppConfig {
	return AppConfig{
		Port:               config.GetEnv("PORT", "8080"),
		ReadTimeout:        config.GetEnvDuration("HTTP_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:       config.GetEnvDuration("HTTP_WRITE_TIMEOUT", 2*time.Minute),
		ShutdownTimeout:    config.GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		CORSOrigins:        config.GetEnvList("CORS_ORIGINS", []string{"*"}),
		UploadDir:          config.GetEnv("UPLOAD_DIR", ""),
		MaxUploadBytes:     config.GetEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		CacheTTL:           config.GetEnvDuration("CACHE_TTL", 5*time.Minute),
		LogLevel:           config.ParseLogLevel(config.GetEnv("LOG_LEVEL", "info")),
		RunMigrations:      config.GetEnvBool("RUN_MIGRATIONS", false),
		SweepOlderThan:     config.GetEnvDuration("SWEEP_OLDER_THAN", time.Hour),
		SweepRatePerMinute: config.GetEnvInt("SWEEP_RATE_PER_MINUTE", 120),
	}
}
