// feedtest connects to the terminal bridge stream and prints decoded
// events to the console.
// Usage: go run ./cmd/feedtest --config configs/syncer.local.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rickgao/dealsync/internal/config"
	"github.com/rickgao/dealsync/internal/feed"
	"github.com/rickgao/dealsync/internal/model"
	"github.com/rickgao/dealsync/internal/terminal"
)

func main() {
	configPath := flag.String("config", "configs/syncer.local.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "fetch and print full event detail")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// Load config
	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	// Detail fetches only happen in verbose mode
	var bridge *terminal.Client
	if *verbose {
		bridge = terminal.NewClient(cfg.Bridge.RestURL, cfg.Bridge.AuthToken, terminal.WithLogger(logger))
	}

	watcher := feed.NewWatcher(feed.WatcherConfig{
		URL:                cfg.Bridge.WSURL,
		AuthToken:          cfg.Bridge.AuthToken,
		PingTimeout:        cfg.Feed.PingTimeout,
		WriteTimeout:       cfg.Feed.WriteTimeout,
		BufferSize:         cfg.Feed.BufferSize,
		ReconnectBaseDelay: cfg.Feed.ReconnectBaseDelay,
		ReconnectMaxDelay:  cfg.Feed.ReconnectMaxDelay,
	}, logger)

	logger.Info("connecting to stream", "url", cfg.Bridge.WSURL)
	if err := watcher.Start(ctx); err != nil {
		logger.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	var eventCount atomic.Int64

	// Console printer
	go printEvents(ctx, watcher.Events(), bridge, &eventCount)

	// Stats printer
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logger.Info("stats",
					"connected", watcher.IsConnected(),
					"events", eventCount.Load(),
				)
			}
		}
	}()

	logger.Info("streaming started - press Ctrl+C to stop")

	// Wait for shutdown
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Info("shutting down...")
	watcher.Stop(shutdownCtx)

	logger.Info("shutdown complete", "events", eventCount.Load())
}

func printEvents(ctx context.Context, events <-chan model.RawEvent, bridge *terminal.Client, count *atomic.Int64) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			count.Add(1)
			fmt.Printf("[%s] ticket=%d received=%s\n",
				event.Kind, event.Ticket, event.ReceivedAt.Format(time.RFC3339Nano))

			if bridge == nil {
				continue
			}

			switch event.Kind {
			case model.KindDealAdded:
				deal, err := bridge.DealByTicket(ctx, event.Ticket)
				if err != nil {
					fmt.Printf("  detail unavailable: %v\n", err)
					continue
				}
				data, _ := json.MarshalIndent(deal, "  ", "  ")
				fmt.Printf("  %s\n", data)

			case model.KindPositionChanged:
				pos, err := bridge.PositionByID(ctx, event.Ticket)
				if err != nil {
					fmt.Printf("  snapshot unavailable: %v\n", err)
					continue
				}
				data, _ := json.MarshalIndent(pos, "  ", "  ")
				fmt.Printf("  %s\n", data)
			}
		}
	}
}
