package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lodestar-lab/temporal-engine/internal/columns"
	corecfg "github.com/lodestar-lab/temporal-engine/internal/core/config"
	"github.com/lodestar-lab/temporal-engine/internal/core/parsing"
	"github.com/lodestar-lab/temporal-engine/internal/core/storage/postgres"
	"github.com/lodestar-lab/temporal-engine/internal/core/timezone"
	"github.com/lodestar-lab/temporal-engine/internal/migrations"
	"github.com/lodestar-lab/temporal-engine/internal/query"
	"github.com/lodestar-lab/temporal-engine/internal/server"
)

func main() {
	configPath := flag.String("config", "engine.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config", "config", cfg)

	defaultAmb, err := timezone.ParseAmbiguousPolicy(cfg.Engine.Ambiguous)
	if err != nil {
		slog.Error("Invalid ambiguous policy", "value", cfg.Engine.Ambiguous, "error", err)
		os.Exit(1)
	}
	defaultNon, err := timezone.ParseNonexistentPolicy(cfg.Engine.Nonexistent)
	if err != nil {
		slog.Error("Invalid nonexistent policy", "value", cfg.Engine.Nonexistent, "error", err)
		os.Exit(1)
	}

	// 2. Initialize Storage (PostgreSQL)
	dbAdapter, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer dbAdapter.Close()

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	// 3. Initialize Format Guesser (built-in patterns + optional extras)
	extraPatterns, err := parsing.LoadPatternDir(cfg.Parsing.PatternDir)
	if err != nil {
		slog.Error("Failed to load parse patterns", "dir", cfg.Parsing.PatternDir, "error", err)
		os.Exit(1)
	}
	guesser := parsing.NewTableGuesser(extraPatterns)
	slog.Info("Format guesser initialized",
		"pattern_dir", cfg.Parsing.PatternDir,
		"extra_kinds", len(extraPatterns),
		"sample_size", cfg.Parsing.SampleSize,
	)

	// 4. Initialize Column Upload Service
	columnsSvc := columns.NewService(
		dbAdapter,
		guesser,
		cfg.Parsing.SampleSize,
		cfg.Server.MaxBodySizeMB,
		defaultAmb,
		defaultNon,
	)

	// 5. Initialize Query Service
	querySvc := query.NewService(dbAdapter, cfg.Engine.Workers, defaultAmb, defaultNon)

	// 6. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), dbAdapter.DB(), cfg.Server.Mode)
	columnsSvc.RegisterRoutes(srv.Engine)
	querySvc.RegisterRoutes(srv.Engine)

	// 7. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
