package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/dealsync/internal/backlog"
	"github.com/rickgao/dealsync/internal/collector"
	"github.com/rickgao/dealsync/internal/config"
	"github.com/rickgao/dealsync/internal/cursor"
	"github.com/rickgao/dealsync/internal/engine"
	"github.com/rickgao/dealsync/internal/feed"
	"github.com/rickgao/dealsync/internal/metrics"
	"github.com/rickgao/dealsync/internal/payload"
	"github.com/rickgao/dealsync/internal/terminal"
	"github.com/rickgao/dealsync/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/syncer.local.yaml", "path to config file")
	flag.Parse()

	// Bootstrap logger; replaced once the config says how verbose to be
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting syncer",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		"account", cfg.Account.ID,
		"bridge", cfg.Bridge.RestURL,
		"collector", cfg.Collector.URL,
		"cursor_backend", cfg.Cursor.Backend,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Open the cursor store
	store, err := cursor.Open(ctx, cfg.Cursor)
	if err != nil {
		logger.Error("failed to open cursor store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	initialCursor, found, err := store.Load(ctx, cfg.Cursor.Slot)
	if err != nil {
		logger.Error("failed to load cursor", "slot", cfg.Cursor.Slot, "error", err)
		os.Exit(1)
	}
	logger.Info("cursor loaded",
		"slot", cfg.Cursor.Slot,
		"value", initialCursor,
		"found", found,
	)

	// Create the bridge client
	bridge := terminal.NewClient(
		cfg.Bridge.RestURL,
		cfg.Bridge.AuthToken,
		terminal.WithLogger(logger),
		terminal.WithTimeout(cfg.Bridge.Timeout),
	)

	// Preflight: without the terminal there is nothing to sync
	account, err := bridge.Account(ctx)
	if err != nil {
		logger.Error("terminal bridge unreachable", "error", err)
		os.Exit(1)
	}
	logger.Info("terminal account",
		"login", account.Login,
		"server", account.Server,
		"currency", account.Currency,
	)

	// Create the collector client
	deliverer := collector.NewClient(
		cfg.Collector.URL,
		collector.WithTimeout(cfg.Collector.Timeout),
		collector.WithLogger(logger),
	)

	// Create the engine
	eng := engine.New(
		engine.Config{
			Account: payload.Account{
				ID:          cfg.Account.ID,
				AccessToken: cfg.Account.AccessToken,
			},
			Slot:          cfg.Cursor.Slot,
			InitialCursor: initialCursor,
		},
		store,
		bridge,
		bridge,
		deliverer,
		logger,
	)

	// The watcher is created now but started only after the backlog
	// pass completes
	watcher := feed.NewWatcher(feed.WatcherConfig{
		URL:                cfg.Bridge.WSURL,
		AuthToken:          cfg.Bridge.AuthToken,
		PingTimeout:        cfg.Feed.PingTimeout,
		WriteTimeout:       cfg.Feed.WriteTimeout,
		BufferSize:         cfg.Feed.BufferSize,
		ReconnectBaseDelay: cfg.Feed.ReconnectBaseDelay,
		ReconnectMaxDelay:  cfg.Feed.ReconnectMaxDelay,
	}, logger)

	// Start the health/metrics server early so the backlog pass is
	// observable
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: createHealthHandler(cfg, eng, watcher, logger),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Metrics.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	// Catch-up pass runs to completion before live delivery starts
	backlogCfg := backlog.DefaultConfig()
	backlogCfg.Enabled = cfg.BacklogEnabled()
	backlogCfg.Window = cfg.Backlog.Window

	if _, err := backlog.New(backlogCfg, bridge, eng, logger).Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("shutdown during backlog pass")
			return
		}
		logger.Error("backlog pass failed", "error", err)
		os.Exit(1)
	}

	// Start the live feed
	if err := watcher.Start(ctx); err != nil {
		logger.Error("failed to start feed watcher", "error", err)
		os.Exit(1)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		watcher.Stop(stopCtx)
	}()

	// Single consumer keeps the event path serialized
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-watcher.Events():
				eng.Process(ctx, event)
			}
		}
	}()

	logger.Info("syncer running",
		"account", cfg.Account.ID,
		"cursor", eng.Cursor(),
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	stats := eng.Stats()
	logger.Info("syncer stopped",
		"received", stats.Received,
		"emitted", stats.Emitted,
		"suppressed", stats.Suppressed,
		"delivered", stats.Delivered,
		"cursor", stats.Cursor,
	)
}

// createHealthHandler creates the HTTP handler for health checks and
// metrics.
func createHealthHandler(cfg *config.Config, eng *engine.Engine, watcher *feed.Watcher, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		stats := eng.Stats()

		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		health.Components["cursor"] = map[string]interface{}{
			"slot":  cfg.Cursor.Slot,
			"value": stats.Cursor,
		}
		health.Components["engine"] = map[string]interface{}{
			"received":   stats.Received,
			"emitted":    stats.Emitted,
			"suppressed": stats.Suppressed,
			"delivered":  stats.Delivered,
		}

		connected := watcher.IsConnected()
		health.Components["feed"] = map[string]interface{}{
			"connected": connected,
		}
		if !connected {
			health.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	})

	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	return mux
}
