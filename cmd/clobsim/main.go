// Command clobsim runs the matching engine simulator: it loads a market
// configuration, starts the HTTP inspection API and websocket event feed,
// and optionally replays a batch of orders from a feed file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/abdoElHodaky/tradsys-clob/internal/api"
	"github.com/abdoElHodaky/tradsys-clob/internal/config"
	"github.com/abdoElHodaky/tradsys-clob/internal/engine"
	"github.com/abdoElHodaky/tradsys-clob/internal/feed"
	"github.com/abdoElHodaky/tradsys-clob/internal/metrics"
	"github.com/abdoElHodaky/tradsys-clob/internal/obs"
	"github.com/abdoElHodaky/tradsys-clob/internal/ratelimit"
	"github.com/abdoElHodaky/tradsys-clob/internal/stream"
)

const appName = "clobsim"

func main() {
	configPath := flag.String("config", "", "path to a YAML market configuration (defaults built in if empty)")
	feedPath := flag.String("feed", "", "path to a YAML order feed replayed through internal/feed's worker pool before the API starts serving")
	feedWorkers := flag.Int("feed-workers", 8, "worker pool size used to replay -feed")
	flag.Parse()

	runID := uuid.NewString()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	var logger obs.Logger = obs.NewStructuredLogger(appName, obs.Config{Level: cfg.System.LogLevel, Encoding: "json"})
	logger = logger.With("run_id", runID)

	manager := engine.NewManager(cfg)
	collector := metrics.NewCollector()
	hub := stream.NewHub(logger)
	limiter := ratelimit.New(cfg.RateLimit)

	observers := []engine.Observer{collector}

	if *feedPath != "" {
		replayFeed(*feedPath, *feedWorkers, manager, logger, []engine.Observer{collector, hub})
	}

	server := api.NewServer(cfg.Server, manager, limiter, hub, observers, metrics.Handler(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info("clobsim started", "run_id", runID, "markets", fmt.Sprint(manager.Symbols()))

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("error during shutdown", "error", err.Error())
		}
	case err := <-errCh:
		if err != nil {
			logger.Error("server exited with error", "error", err.Error())
			os.Exit(1)
		}
	}
}

// replayFeed loads a YAML order feed and drains it through internal/feed's
// worker pool before the API starts serving, so a warm book is in place
// for the first request.
func replayFeed(path string, workers int, manager *engine.Manager, logger obs.Logger, observers []engine.Observer) {
	entries, err := feed.LoadEntries(path)
	if err != nil {
		log.Fatalf("loading feed: %v", err)
	}

	replayer, err := feed.New(manager, workers, logger, observers...)
	if err != nil {
		log.Fatalf("building feed replayer: %v", err)
	}
	defer replayer.Release()

	results := replayer.Replay(entries)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Warn("feed entry failed", "symbol", r.Entry.Symbol, "error", r.Err.Error())
		}
	}
	logger.Info("feed replay complete", "entries", len(entries), "failed", failed)
}
