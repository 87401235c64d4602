// Kestrel - Flight disruption eligibility checks in 60 seconds.
// Copyright (c) 2026 openclaims
// Licensed under the Apache License 2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/openclaims/kestrel/internal/api"
	"github.com/openclaims/kestrel/internal/bus"
	"github.com/openclaims/kestrel/internal/cache"
	"github.com/openclaims/kestrel/internal/circumstances"
	"github.com/openclaims/kestrel/internal/domain"
	"github.com/openclaims/kestrel/internal/engine"
	"github.com/openclaims/kestrel/internal/geo"
	"github.com/openclaims/kestrel/internal/policy"
	"github.com/openclaims/kestrel/internal/repository"
	"github.com/openclaims/kestrel/internal/worker"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("KESTREL_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Log startup
	slog.Info("starting kestrel",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	// Load configuration
	cfg := domain.DefaultConfig()

	// Check for Pro tier via environment
	if os.Getenv("KESTREL_TIER") == "pro" {
		cfg = domain.ProConfig()
		slog.Info("running in Pro tier mode")
	}

	// Optional LLM classifier
	cfg.Classifier.APIKey = os.Getenv("KESTREL_OPENAI_API_KEY")
	if model := os.Getenv("KESTREL_CLASSIFIER_MODEL"); model != "" {
		cfg.Classifier.Model = model
	}

	slog.Info("configuration loaded",
		"tier", cfg.Tier,
		"repository", cfg.Repository.Driver,
		"cache", cfg.Cache.Type,
		"eventbus", cfg.EventBus.Type,
		"llm_classifier", cfg.Classifier.APIKey != "",
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Repository
	repo, err := repository.New(cfg.Repository)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Repository.Driver)

	// Initialize Cache
	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer cacheImpl.Close()
	slog.Info("cache initialized", "type", cfg.Cache.Type)

	// Initialize EventBus
	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	// Initialize distance calculator with cached lookups
	calc := geo.NewCalculator(cacheImpl)

	// Initialize extraordinary-circumstances classifier
	var analyzer circumstances.Analyzer
	if cfg.Classifier.APIKey != "" {
		analyzer = circumstances.NewOpenAIAnalyzer(cfg.Classifier.APIKey, cfg.Classifier.Model)
		slog.Info("LLM classifier enabled", "model", cfg.Classifier.Model)
	}
	classifier := circumstances.NewService(analyzer, time.Duration(cfg.Classifier.TimeoutMs)*time.Millisecond)

	// Initialize Eligibility Engine
	eng := engine.New(calc, classifier)
	slog.Info("eligibility engine initialized", "engine_version", engine.EngineVersion)

	// Initialize Policy Engine with claim-velocity getter backed by the repository
	claimCounts := func(ctx context.Context, tenantID, flightNumber string) (int64, error) {
		since := time.Now().Add(-24 * time.Hour)
		return repo.CountEvaluationsByFlight(ctx, tenantID, flightNumber, since)
	}
	policies, err := policy.NewEngine(claimCounts, 100)
	if err != nil {
		slog.Error("failed to initialize policy engine", "error", err)
		os.Exit(1)
	}

	// Load policies: builtins plus anything configured via the API
	if err := loadPoliciesFromDatabase(ctx, repo, policies); err != nil {
		slog.Error("failed to load policies", "error", err)
		os.Exit(1)
	}
	slog.Info("policy engine initialized", "policies_count", policies.PoliciesCount())

	// Initialize async Worker (Pro tier)
	var asyncWorker *worker.Worker
	if cfg.Tier == domain.TierPro || os.Getenv("KESTREL_ASYNC_WORKER") == "true" {
		asyncWorker = worker.NewWorker(busImpl, repo, eng, policies)

		// Get tenant IDs to process (from environment or default)
		tenantIDs := []string{}
		if envTenants := os.Getenv("KESTREL_TENANTS"); envTenants != "" {
			for _, t := range strings.Split(envTenants, ",") {
				if t = strings.TrimSpace(t); t != "" {
					tenantIDs = append(tenantIDs, t)
				}
			}
		}

		workerCfg := worker.Config{
			TenantIDs:   tenantIDs,
			WorkerCount: 5,
		}

		if err := asyncWorker.Start(workerCfg); err != nil {
			slog.Error("failed to start async worker", "error", err)
		} else {
			slog.Info("async worker started", "tenant_count", len(tenantIDs))
		}
	}

	// Initialize Server
	srv := api.NewServer(cfg.Server, repo, cacheImpl, busImpl, eng, policies, calc, Version)

	// Start Server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("kestrel is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version)

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	// Stop async worker first
	if asyncWorker != nil {
		if err := asyncWorker.Stop(); err != nil {
			slog.Error("failed to stop async worker", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("kestrel shutdown complete")
}

// loadPoliciesFromDatabase loads the builtin override policies and any
// operator-defined policies stored in the database.
func loadPoliciesFromDatabase(ctx context.Context, repo domain.Repository, policies *policy.Engine) error {
	configs := policy.BuiltinPolicies()

	dbPolicies, err := repo.ListPolicies(ctx, domain.GlobalTenantID)
	if err != nil {
		slog.Warn("failed to list policies from database", "error", err)
	} else if len(dbPolicies) > 0 {
		slog.Info("loading policies from database", "count", len(dbPolicies))
		configs = append(configs, dbPolicies...)
	}

	return policies.LoadPolicies(configs)
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════╗")
	fmt.Println("  ║               🪶 KESTREL                  ║")
	fmt.Println("  ║   Flight Compensation Rules Engine        ║")
	fmt.Println("  ║    Every disruption, priced in law.       ║")
	fmt.Println("  ╚═══════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Tier:     %s\n", cfg.Tier)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    POST /check                 - Check disruption eligibility")
	fmt.Println("    GET  /evaluations/{id}      - Get evaluation by ID")
	fmt.Println("    GET  /disruptions/{id}      - Get disruption by ID")
	fmt.Println("    GET  /distance/{from}/{to}  - Great-circle distance lookup")
	fmt.Println("    GET  /policies              - List override policies")
	fmt.Println("    POST /policies              - Create an override policy")
	fmt.Println("    DELETE /policies/{id}       - Delete an override policy")
	fmt.Println("    POST /policies/reload       - Hot-reload policies from database")
	fmt.Println("    GET  /health                - Health check")
	fmt.Println()
}
