package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"event_backend/internal/app/di"
	"event_backend/internal/app/router"
	authadapters "event_backend/internal/feature/auth/adapters"
	authentity "event_backend/internal/feature/auth/domain/entity"
	authhandler "event_backend/internal/feature/auth/transport/handler"
	authusecase "event_backend/internal/feature/auth/usecase"
	evententity "event_backend/internal/feature/events/domain/entity"
	eventhandler "event_backend/internal/feature/events/transport/handler"
	eventusecase "event_backend/internal/feature/events/usecase"
	"event_backend/internal/feature/media/adapters/s3store"
	mediaentity "event_backend/internal/feature/media/domain/entity"
	"event_backend/internal/platform/config"
	infradb "event_backend/internal/platform/db"
	"event_backend/internal/platform/http/handler"
	jwtmw "event_backend/internal/platform/jwt"
	"event_backend/internal/platform/realtime"
	infraredis "event_backend/internal/platform/redis"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}
	cfg := di.LoadAppConfig()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := run(cfg); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg di.AppConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 署名シークレットが空の場合は起動しない
	jwtCfg, err := jwtmw.LoadConfig()
	if err != nil {
		return err
	}

	// db
	db, err := infradb.OpenDB()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()
	if cfg.RunMigrations {
		if err := infradb.Migrate(db, &authentity.Account{}, &evententity.Event{}, &mediaentity.UploadIntent{}); err != nil {
			return err
		}
		slog.Info("migrations applied")
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig()); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// オブジェクトストレージ
	storage, err := di.NewObjectStorage(ctx, s3store.LoadConfig())
	if err != nil {
		return err
	}

	if cfg.UploadDir != "" {
		if err := os.MkdirAll(cfg.UploadDir, 0o750); err != nil {
			return fmt.Errorf("failed to create upload dir: %w", err)
		}
	}

	// Repository
	accountRepo := authadapters.NewAccountRepository(db)
	eventRepo := di.NewEventRepository(rdb, db, cfg.CacheTTL)
	gateway := di.NewMediaGateway(storage, db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(accountRepo, jwtmw.NewGenerator(jwtCfg.Secret, jwtCfg.Expiration), gateway)
	eventUC := eventusecase.NewEventUsecase(eventRepo, accountRepo, gateway)

	// Handler
	authH := authhandler.NewAuthHandler(authUC, cfg.MaxUploadBytes)
	eventH := eventhandler.NewEventHandler(eventUC, cfg.UploadDir, cfg.MaxUploadBytes)
	hub := realtime.NewHub(cfg.CORSOrigins)

	checks := map[string]handler.Check{
		"db":      sqlDB.PingContext,
		"storage": storage.Ping,
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// ルータ生成
	r := router.NewRouter(authH, eventH, hub, router.Options{
		JWTSecret:       jwtCfg.Secret,
		CORSOrigins:     cfg.CORSOrigins,
		ReadinessChecks: checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received")
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
