package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/paytracker/paytracker/internal/app"
	"github.com/paytracker/paytracker/internal/backup"
	"github.com/paytracker/paytracker/internal/blob"
	"github.com/paytracker/paytracker/internal/clients"
	"github.com/paytracker/paytracker/internal/dashboard"
	"github.com/paytracker/paytracker/internal/export"
	"github.com/paytracker/paytracker/internal/payments"
	"github.com/paytracker/paytracker/internal/store"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	var snapshots blob.Store
	switch cfg.StorageBackend {
	case app.BackendRedis:
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping", slog.Any("error", err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		snapshots = blob.NewRedisStore(redisClient, cfg.StorageKey)
	case app.BackendSQLite:
		sqliteStore, err := blob.NewSQLiteStore(cfg.SQLitePath, cfg.StorageKey)
		if err != nil {
			logger.Error("open sqlite storage", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := sqliteStore.Close(); err != nil {
				logger.Warn("sqlite close", slog.Any("error", err))
			}
		}()
		snapshots = sqliteStore
	default:
		snapshots = blob.NewFileStore(cfg.StoragePath)
	}

	st := store.New(store.Options{
		Blob:                 snapshots,
		RestrictClientDelete: cfg.RestrictClientDelete,
	})
	if err := st.Open(ctx); err != nil {
		logger.Error("load store", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.SeedDemoData {
		seeded, err := st.SeedIfEmpty(ctx)
		if err != nil {
			logger.Error("seed demo data", slog.Any("error", err))
			os.Exit(1)
		}
		if seeded {
			logger.Info("seeded demo data")
		}
	}

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		ClientHandler:    clients.NewHandler(logger, st),
		PaymentHandler:   payments.NewHandler(logger, st),
		DashboardHandler: dashboard.NewHandler(logger, st),
		ExportHandler:    export.NewHandler(logger, st),
		BackupHandler:    backup.NewHandler(logger, st),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
