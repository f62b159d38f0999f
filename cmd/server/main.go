package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/sabbaghsami/gramps/common/id"
	"github.com/sabbaghsami/gramps/common/llm"
	"github.com/sabbaghsami/gramps/common/logger"
	"github.com/sabbaghsami/gramps/common/otel"
	"github.com/sabbaghsami/gramps/core/config"
	"github.com/sabbaghsami/gramps/internal/http/middleware"
	httprouter "github.com/sabbaghsami/gramps/internal/http/router"
	"github.com/sabbaghsami/gramps/internal/service"
	"github.com/sabbaghsami/gramps/internal/store/backend"
	"github.com/sabbaghsami/gramps/internal/worker"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger bridges to the OTel log provider)
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "gramps starting",
		"env", cfg.Env,
		"service", cfg.OTel.ServiceName,
		"storage", cfg.Storage.Backend)

	if err := id.Init(cfg.NodeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	storage, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	var llmClient llm.Client
	if cfg.OpenAI.Enabled() {
		llmClient, err = llm.New(llm.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to create llm client", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "translation enabled", "model", llmClient.Model())
	} else {
		slog.InfoContext(ctx, "translation disabled (no OPENAI_API_KEY)")
	}

	services := service.NewServices(storage.Stores, service.NewWorkOSProvider(cfg.WorkOS), llmClient, cfg)

	var sweeper *worker.Sweeper
	if storage.SweepsInProcess() {
		sweeper = worker.NewSweeper(services.Expiry(), nil, worker.SweeperConfig{
			Interval: cfg.Sweep.Interval,
		}, storage.CollectGarbage)
		go sweeper.Run(ctx)
		slog.InfoContext(ctx, "expiry sweeper running in process", "interval", cfg.Sweep.Interval)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if sweeper != nil {
		sweeper.Stop()
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span, Recovery catches panics, then the logger sees trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		DashboardURL: cfg.DashboardURL,
		IsProduction: cfg.IsProduction(),
	})

	return router
}

const banner = `
  __ _ _ __ __ _ _ __ ___  _ __  ___
 / _' | '__/ _' | '_ ' _ \| '_ \/ __|
| (_| | | | (_| | | | | | | |_) \__ \
 \__, |_|  \__,_|_| |_| |_| .__/|___/
 |___/                    |_|   server
`
