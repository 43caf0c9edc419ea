package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lootworks/floorsync/internal/config"
	"github.com/lootworks/floorsync/internal/database"
	"github.com/lootworks/floorsync/internal/journal"
	"github.com/lootworks/floorsync/internal/marketplace"
	"github.com/lootworks/floorsync/internal/model"
	"github.com/lootworks/floorsync/internal/relay"
	"github.com/lootworks/floorsync/internal/scheduler"
	"github.com/lootworks/floorsync/internal/stream"
	"github.com/lootworks/floorsync/internal/syncer"
	"github.com/lootworks/floorsync/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config file (default: environment variables)")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting syncbot",
		"version", version.Version,
		"commit", version.Commit,
	)

	// Load .env before reading configuration
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found")
	}

	// Load configuration; misconfiguration is fatal before the scheduler starts
	var cfg *config.BotConfig
	var err error
	if *configPath != "" {
		cfg, err = config.LoadAndValidate(*configPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"collections", len(cfg.Collections),
		"undercut_bps", *cfg.Pricing.UndercutBps,
		"poll_interval", cfg.Scheduler.PollInterval,
		"concurrency", cfg.Scheduler.Concurrency,
		"dry_run", cfg.DryRun,
	)

	ctx := context.Background()

	// Marketplace gateways
	stats := marketplace.NewStatsClient(cfg.Stats, logger)
	listings := marketplace.NewListingsClient(cfg.Listings, logger)

	// Optional live quote feed in front of the REST stats gateway
	var quotes syncer.QuoteSource = stats
	var feed *stream.Feed
	if cfg.Stream.Enabled {
		feed = stream.New(cfg.Stream, cfg.Collections, logger)
		if err := feed.Start(ctx); err != nil {
			logger.Error("failed to start quote stream", "error", err)
			os.Exit(1)
		}
		quotes = stream.NewSource(feed, stats)
	}

	// Optional chain relay
	var publisher syncer.SnapshotPublisher
	if cfg.Relay.Enabled {
		publisher = relay.NewPublisher(cfg.Relay, logger)
		logger.Info("relay publisher enabled", "url", cfg.Relay.BaseURL)
	}

	// Optional snapshot journal
	var journalWriter *journal.Writer
	if cfg.Journal.Enabled {
		pool, err := database.Connect(ctx, cfg.Journal.Database)
		if err != nil {
			logger.Error("failed to connect to journal database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		journalWriter = journal.NewWriter(journal.Config{
			BatchSize:     cfg.Journal.BatchSize,
			FlushInterval: cfg.Journal.FlushInterval,
		}, pool, logger)
		if err := journalWriter.Start(ctx); err != nil {
			logger.Error("failed to start snapshot journal", "error", err)
			os.Exit(1)
		}
	}

	// Per-collection synchronization task
	task := syncer.New(syncer.Config{
		UndercutBps: *cfg.Pricing.UndercutBps,
		MinTick:     cfg.Pricing.MinTick,
		DryRun:      cfg.DryRun,
	}, quotes, listings, publisher, logger)

	// Report every outcome per listing per cycle, then journal
	handler := scheduler.ReportHandlerFunc(func(report model.CycleReport) {
		for _, o := range report.Outcomes {
			logger.Info("listing outcome",
				"cycle", report.CycleID,
				"collection", report.Collection,
				"listing", o.ListingID,
				"outcome", o.Kind.String(),
				"old_price", amountAttr(o.OldPrice),
				"new_price", amountAttr(o.NewPrice),
				"reason", o.Reason,
			)
		}
		if journalWriter != nil {
			journalWriter.HandleReport(report)
		}
	})

	sched := scheduler.New(scheduler.Config{
		Interval:    cfg.Scheduler.PollInterval,
		Concurrency: cfg.Scheduler.Concurrency,
	}, cfg.Collections, task, handler, logger)

	// Health server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(sched, feed, journalWriter),
	}
	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	if err := sched.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	logger.Info("syncbot running",
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Health.Port),
	)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig)

	// Drain: finish in-flight and queued tasks before exiting
	drainCtx, drainCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer drainCancel()

	if err := sched.Stop(drainCtx); err != nil {
		logger.Warn("scheduler drain incomplete", "error", err)
	}
	if feed != nil {
		feed.Stop(drainCtx)
	}
	if journalWriter != nil {
		journalWriter.Stop(drainCtx)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("syncbot stopped")
}

// amountAttr renders an optional amount for logging.
func amountAttr(v *float64) any {
	if v == nil {
		return "none"
	}
	return *v
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(sched *scheduler.Scheduler, feed *stream.Feed, journalWriter *journal.Writer) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		stats := sched.Stats()
		health.Components["scheduler"] = map[string]any{
			"cycles":        stats.Cycles,
			"tasks":         stats.Tasks,
			"failures":      stats.Failures,
			"last_cycle_at": stats.LastCycleAt,
		}
		if stats.Cycles == 0 {
			health.Status = "degraded"
		}

		if feed != nil {
			connected := feed.Connected()
			health.Components["quote_stream"] = map[string]any{
				"connected": connected,
			}
			if !connected {
				health.Status = "degraded"
			}
		}

		if journalWriter != nil {
			m := journalWriter.Stats()
			health.Components["journal"] = map[string]any{
				"inserts": m.Inserts,
				"errors":  m.Errors,
				"flushes": m.Flushes,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
