// Package config は環境変数から型付きの設定値を読み込む共通ヘルパーを提供します。
// 各パッケージの LoadConfig はこのヘルパーを使ってデフォルト値付きで値を解決します。
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv は指定された .env ファイルを環境変数に読み込みます。
// ファイルが存在しない場合はエラーにしません（本番ではプロセス環境から直接渡されるため）。
// 既に設定済みの環境変数は上書きされません。
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("env file not found, skipping", "path", p)
				continue
			}
			return err
		}
		slog.Debug("env file loaded", "path", p)
	}
	return nil
}

// GetEnv は環境変数の値を返します。未設定または空の場合は fallback を返します。
func GetEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetEnvInt は環境変数を整数として読み込みます。
// 解析できない値の場合は警告を出して fallback を返します。
func GetEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer env value, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

// GetEnvInt64 は GetEnvInt の int64 版です。
func GetEnvInt64(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("invalid integer env value, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

// GetEnvBool は環境変数を真偽値として読み込みます（"true", "1", "yes" など strconv.ParseBool が受け付ける形式）。
func GetEnvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env value, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

// GetEnvDuration は環境変数を time.Duration として読み込みます（例: "30s", "720h"）。
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration env value, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

// GetEnvList はカンマ区切りの環境変数をスライスとして読み込みます。空要素は除外されます。
func GetEnvList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// ParseLogLevel は LOG_LEVEL 形式の文字列を slog.Level に変換します。
// 不明な値は Info として扱います。
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
