// reconcile は先行記録が残ったままの孤立オブジェクトを一度だけ掃除します。cron などから実行します。
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event_backend/internal/app/di"
	"event_backend/internal/feature/media/adapters/s3store"
	"event_backend/internal/platform/config"
	infradb "event_backend/internal/platform/db"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}
	cfg := di.LoadAppConfig()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	timeout := config.GetEnvDuration("SWEEP_TIMEOUT", 10*time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := infradb.OpenDB()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	storage, err := di.NewObjectStorage(ctx, s3store.LoadConfig())
	if err != nil {
		slog.Error("failed to configure storage", "error", err)
		os.Exit(1)
	}

	rec := di.NewReconciler(storage, db, cfg.SweepRatePerMinute)
	res, err := rec.Sweep(ctx, cfg.SweepOlderThan)
	if err != nil {
		slog.Error("sweep failed", "error", err, "scanned", res.Scanned, "deleted", res.Deleted, "kept", res.Kept, "failed", res.Failed)
		os.Exit(1)
	}
	slog.Info("sweep ok", "scanned", res.Scanned, "deleted", res.Deleted, "kept", res.Kept, "failed", res.Failed, "has_more", res.HasMore)
}
