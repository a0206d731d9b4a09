package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/petergfitz2/athena-ai-sub000/internal/api/handlers"
	analyticsHandler "github.com/petergfitz2/athena-ai-sub000/internal/api/handlers/analytics"
	"github.com/petergfitz2/athena-ai-sub000/internal/api/router"
	"github.com/petergfitz2/athena-ai-sub000/internal/infra/cache"
	"github.com/petergfitz2/athena-ai-sub000/internal/infra/returns"
	"github.com/petergfitz2/athena-ai-sub000/internal/pkg/config"
	"github.com/petergfitz2/athena-ai-sub000/internal/pkg/logger"
	"github.com/petergfitz2/athena-ai-sub000/internal/pkg/metrics"
	analyticsService "github.com/petergfitz2/athena-ai-sub000/internal/service/analytics"
)

const (
	serviceName    = "athena-analytics-api"
	serviceVersion = "1.0.0"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		FileEnabled:    cfg.Logging.FileEnabled,
		FilePath:       cfg.Logging.FilePath,
		RotationSize:   cfg.Logging.RotationSize,
		RetentionDays:  cfg.Logging.RetentionDays,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("version", serviceVersion).
		Str("source", cfg.Analytics.Source).
		Msg("Starting Athena analytics API server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Return series source (postgres or synthetic)
	source, err := returns.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open return series source")
	}
	defer source.Close()

	// Metrics + service
	registry := metrics.NewRegistry()
	svc := analyticsService.NewService(source.Provider, cfg.Analytics.Params())
	svc.SetObserver(registry)

	h := analyticsHandler.NewHandler(svc, source.Holdings)
	h.SetMetrics(registry)

	// Result cache (optional)
	var cachePinger handlers.Pinger
	if cfg.Cache.Enabled {
		redisClient := cache.NewClient(cfg.Redis)
		defer redisClient.Close()

		resultCache := cache.NewResultCache(redisClient, cfg.Cache.TTL)
		if err := resultCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr()).Msg("Redis unavailable, results will not be cached")
		} else {
			h.SetCache(resultCache, source.Versioner)
			cachePinger = resultCache
			log.Info().Str("addr", cfg.Redis.Addr()).Dur("ttl", cfg.Cache.TTL).Msg("Result cache enabled")
		}
	}

	var dbChecker handlers.DatabaseChecker
	if source.Pool != nil {
		dbChecker = source.Pool
	}

	var accessLogger = logger.GetLogger()
	if cfg.Logging.FileEnabled {
		l := logger.NewAccessLogger(cfg.Logging.FilePath, cfg.Logging.RotationSize, cfg.Logging.RetentionDays)
		accessLogger = &l
	}

	handler := router.NewRouter(&router.Config{
		AnalyticsHandler: h,
		HealthHandler:    handlers.NewHealthHandler(dbChecker, cachePinger, serviceVersion),
		Metrics:          registry,
		AccessLogger:     accessLogger,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", addr).Msg("API server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutdown signal received, stopping server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Athena analytics API server stopped")
}
