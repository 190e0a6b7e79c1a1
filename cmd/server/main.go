// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/chronoterra/docs" // Import generated swagger docs
	"github.com/tomtom215/chronoterra/internal/analysis"
	"github.com/tomtom215/chronoterra/internal/api"
	"github.com/tomtom215/chronoterra/internal/cache"
	"github.com/tomtom215/chronoterra/internal/config"
	"github.com/tomtom215/chronoterra/internal/gee"
	"github.com/tomtom215/chronoterra/internal/logging"
	"github.com/tomtom215/chronoterra/internal/supervisor"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().Msg("Starting Chronoterra")
	logging.Info().
		Str("project", cfg.GEE.Project).
		Int("default_year_a", cfg.Analysis.DefaultYearA).
		Int("default_year_b", cfg.Analysis.DefaultYearB).
		Bool("cache_enabled", cfg.Cache.Enabled).
		Msg("Configuration loaded")

	// The Earth Engine session is mandatory. Every analysis operation
	// depends on it, so a missing or unparseable credential is fatal.
	client, err := gee.Initialize(&cfg.GEE)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize Earth Engine session")
	}

	engine := gee.NewProtectedClient(client)

	// Probe the session once at startup. Failure is not fatal: the token
	// mints lazily on the first real request, and the circuit breaker
	// covers a flaky upstream.
	if err := engine.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Earth Engine probe failed (will retry on first request)")
	} else {
		logging.Info().Msg("Earth Engine reachable")
	}

	var resultCache *cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.New("analysis", cfg.Cache.TTL)
		defer resultCache.Close()
		logging.Info().Dur("ttl", cfg.Cache.TTL).Msg("Result cache enabled")
	} else {
		logging.Info().Msg("Result cache disabled (CACHE_ENABLED=false)")
	}

	analysisService := analysis.NewService(engine, resultCache, cfg.Analysis)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
		logging.Warn().Msg("This should only be used for load tests and CI!")
	}

	handler := api.NewHandler(analysisService, engine, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility
	sup := supervisor.New(logging.NewSlogLogger(), supervisor.DefaultConfig())
	sup.Add(supervisor.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor...")
	errCh := sup.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := sup.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
