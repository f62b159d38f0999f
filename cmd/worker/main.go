package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sabbaghsami/gramps/common/id"
	"github.com/sabbaghsami/gramps/common/logger"
	"github.com/sabbaghsami/gramps/common/otel"
	"github.com/sabbaghsami/gramps/core/config"
	"github.com/sabbaghsami/gramps/internal/service"
	"github.com/sabbaghsami/gramps/internal/store/backend"
	"github.com/sabbaghsami/gramps/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "gramps worker starting",
		"env", cfg.Env,
		"storage", cfg.Storage.Backend,
		"interval", cfg.Sweep.Interval,
		"batch_size", cfg.Sweep.BatchSize)

	// Use a different node ID than the server
	if err := id.Init(cfg.NodeID + 1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
		os.Exit(1)
	}

	storage, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	var locker worker.Locker
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
			os.Exit(1)
		}

		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		slog.InfoContext(ctx, "redis connected", "lock_key", cfg.Sweep.LockKey)

		locker = worker.NewRedisLocker(redisClient, cfg.Sweep.LockKey, cfg.Sweep.LockTTL)
	} else {
		slog.InfoContext(ctx, "no REDIS_URL, sweeping without a lock")
	}

	services := service.NewServices(storage.Stores, nil, nil, cfg)

	sweeper := worker.NewSweeper(services.Expiry(), locker, worker.SweeperConfig{
		Interval: cfg.Sweep.Interval,
	}, storage.CollectGarbage)

	go sweeper.Run(ctx)

	slog.InfoContext(ctx, "sweeper running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Stop waits for an in-flight sweep
	stopped := make(chan struct{})
	go func() {
		sweeper.Stop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case <-stopped:
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
  __ _ _ __ __ _ _ __ ___  _ __  ___
 / _' | '__/ _' | '_ ' _ \| '_ \/ __|
| (_| | | | (_| | | | | | | |_) \__ \
 \__, |_|  \__,_|_| |_| |_| .__/|___/
 |___/                    |_|   worker
`
