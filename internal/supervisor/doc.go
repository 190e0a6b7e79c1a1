// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
Package supervisor provides process supervision for Chronoterra using suture v4.

It manages the lifecycle of the application's long-running services with
Erlang/OTP-style supervision: automatic restart on crash, exponential backoff
against restart storms, and graceful shutdown on context cancellation.

# Overview

Chronoterra runs a single long-running service, so the supervisor is a flat
root rather than a layered tree:

	Supervisor ("chronoterra")
	└── HTTPServerService ("http-server")

A layered tree earns its keep when unrelated service groups need independent
failure counting. With one service, the flat root gives the same restart and
shutdown semantics without empty intermediate supervisors.

# Key Features

Automatic Restart:
  - A crashed HTTP server is restarted automatically
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - http.Server.Shutdown drains in-flight requests within ShutdownTimeout
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Supervisor events flow through sutureslog into slog
  - The logging package's slog adapter routes them into the zerolog stream
  - Logs service starts, stops, failures, and restarts

# Usage Example

Basic setup in main.go:

	sup := supervisor.New(logging.NewSlogLogger(), supervisor.DefaultConfig())
	sup.Add(supervisor.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sup.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    log.Printf("supervisor stopped: %v", err)
	}

# Configuration

The Config controls restart behavior:

	config := supervisor.Config{
	    FailureThreshold: 5.0,              // Failures before backoff
	    FailureDecay:     30.0,             // Seconds for failures to decay
	    FailureBackoff:   15 * time.Second, // Backoff duration
	    ShutdownTimeout:  10 * time.Second, // Per-service shutdown timeout
	}

Default values match suture's production-ready defaults:
  - FailureThreshold: 5 failures
  - FailureDecay: 30 seconds
  - FailureBackoff: 15 seconds
  - ShutdownTimeout: 10 seconds

# Failure Handling

The supervisor uses a failure counter with exponential decay:

 1. Each service failure increments the counter
 2. Counter decays exponentially over time (FailureDecay seconds)
 3. When counter exceeds FailureThreshold, supervisor enters backoff
 4. During backoff, restarts are delayed by FailureBackoff duration

# Service Interface

All services must implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return nil: Service stopped cleanly, will not be restarted
  - Return error: Service crashed, will be restarted
  - Context canceled: Shutdown requested, return promptly

# What Is NOT Supervised

The Earth Engine session is intentionally not supervised:
  - It is a guarded singleton with its own token refresh loop, not a
    goroutine that should be killed and restarted wholesale
  - Request-level failures are handled by the circuit breaker and retry
    policy in the gee package

The cache janitor is owned by the cache package and stopped via Close.

# Debugging Shutdown Issues

If the server doesn't stop within the timeout:

	report, err := sup.UnstoppedServiceReport()
	for _, svc := range report {
	    log.Printf("service didn't stop: %v", svc)
	}

Common causes:
  - Handlers not respecting context cancellation
  - Blocked network I/O without deadlines

# See Also

  - github.com/thejerf/suture/v4: Underlying library
  - github.com/thejerf/sutureslog: slog event hook adapter
  - internal/logging: slog adapter into the zerolog stream
*/
package supervisor
