package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"polywatch/internal/agent"
	"polywatch/internal/config"
	"polywatch/internal/db"
	"polywatch/internal/explore"
	"polywatch/internal/gamma"
	"polywatch/internal/mdlog"
	"polywatch/internal/scheduler"
	"polywatch/internal/scrape"
	"polywatch/internal/sink"
)

func main() {
	// Parse CLI flags.
	once := flag.Bool("once", false, "Run a single update cycle and exit")
	exploreMode := flag.Bool("explore", false, "List active markets and exit")
	exploreLimit := flag.Int("explore-limit", 10, "Number of markets to list in explore mode")
	flag.Parse()

	// Load configuration.
	configPath := "config.toml"
	if p := os.Getenv("PW_CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.General.LogLevel),
	})))

	slog.Info("polywatch starting", "mode", cfg.Source.Mode)

	// Explore mode needs only the API client.
	if *exploreMode {
		gc := gamma.NewClient(cfg.Source.GammaBaseURL, cfg.Source.CLOBBaseURL)
		runner := explore.NewRunner(gc)
		if err := runner.Run(context.Background(), *exploreLimit); err != nil {
			slog.Error("explore failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Initialize snapshot history.
	database, err := db.Open(cfg.General.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database initialized", "path", cfg.General.DBPath)

	// Select the data source for the deployment mode.
	var source agent.Source
	switch cfg.Source.Mode {
	case "api":
		gc := gamma.NewClient(cfg.Source.GammaBaseURL, cfg.Source.CLOBBaseURL)
		source = agent.NewAPISource(gc, cfg.Source.MarketSlug, cfg.Source.EventSlug)
	case "scrape":
		source = agent.NewScrapeSource(scrape.NewClient(), scrape.NewExtractor(), cfg.Source.PageURL)
	}

	// Wire up the enabled sinks.
	var sinks []sink.Sink
	var logWriter *mdlog.Writer
	if cfg.Log.Enabled {
		logWriter = mdlog.NewWriter(cfg.Log, cfg.UpdateIntervalMinutes())
		sinks = append(sinks, sink.NewMarkdown(logWriter))
	}
	if cfg.Sheet.Enabled {
		sinks = append(sinks, sink.NewCSV(cfg.Sheet.Path))
	}
	slog.Info("sinks configured", "count", len(sinks))

	a := agent.New(source, sinks, db.NewStore(database))
	reporter := agent.NewStatusReporter(a, logWriter)

	// Single-update mode.
	if *once {
		if err := a.RunCycle(context.Background()); err != nil {
			os.Exit(1)
		}
		reporter.LogStatus()
		return
	}

	// Graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	sched := scheduler.New(a, reporter, cfg.Schedule)
	if err := sched.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	slog.Info("polywatch stopped")
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
