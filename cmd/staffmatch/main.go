package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentmesh/staffmatch/internal/api"
	"github.com/talentmesh/staffmatch/internal/cache"
	"github.com/talentmesh/staffmatch/internal/config"
	"github.com/talentmesh/staffmatch/internal/directory"
	"github.com/talentmesh/staffmatch/internal/engine"
	"github.com/talentmesh/staffmatch/internal/events"
	"github.com/talentmesh/staffmatch/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	// Events (optional)
	var eventsClient events.Client
	if cfg.Events.URL != "" {
		ec, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to event bus, running without events", "error", err)
		} else {
			eventsClient = ec
			defer ec.Close()
			logger.Info("connected to event bus")
		}
	}

	// Result cache (optional)
	var resultCache *cache.ResultCache
	if cfg.Cache.Addr != "" {
		rc, err := cache.NewResultCache(ctx, cfg.Cache.Addr, cfg.Cache.Password, cfg.CacheTTL(), logger)
		if err != nil {
			logger.Warn("failed to connect to cache, running without it", "error", err)
		} else {
			resultCache = rc
			defer rc.Close()
			logger.Info("connected to result cache")
		}
	}

	// HR directory (optional)
	var dirClient directory.Client
	if cfg.Directory.URL != "" {
		dirClient = directory.NewHTTPClient(cfg.Directory.URL, cfg.Directory.Token)
	}

	// Engine
	eng := engine.New(db, eventsClient, resultCache, dirClient, cfg, logger)
	eng.Start(ctx)
	defer eng.Stop()
	logger.Info("engine started", "tick_interval", cfg.TickInterval(), "workers", cfg.Matching.Workers)

	eng.SetupSubscriptions()

	// API server
	router := api.NewRouter(db, eventsClient, eng, cfg.Server.AdminToken, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
