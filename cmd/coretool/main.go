// Command coretool is a small CLI harness that drives the trading core
// directly, without a C host — useful for manually exercising the engine
// end to end during development.
//
//	main.go              — entry point: loads config, starts the core, waits for SIGINT/SIGTERM
//	internal/core         — composition root: feed + quoting + portfolio + autotrade
//	internal/feed          — concurrent reconnecting market-data ingester
//	internal/quoting       — Avellaneda-Stoikov closed-form quote solver
//	internal/portfolio     — cash/base inventory state machine
//	internal/autotrade     — rebalancing controller
//	cmd/libcore            — cgo adapter exposing the same operations over a C ABI
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mmcore/internal/config"
	"mmcore/internal/core"
	"mmcore/internal/metrics"
)

func main() {
	cfgPath := os.Getenv("MMCORE_CONFIG")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", cfgPath)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Logging.Level)}
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)

	c := core.New(cfg.Symbol, cfg, logger)
	c.SetInitialPortfolio(10000, 1)

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.ListenAddr, logger)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		logger.Info("metrics exposed", "addr", cfg.Metrics.ListenAddr, "path", "/metrics")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.StartMarketData(ctx)

	logger.Info("trading core started", "symbol", cfg.Symbol)

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			q := c.GetCurrentQuote()
			fmt.Printf("bid=%.2f ask=%.2f mid=%.2f inv=%d pnl=%.2f latency_us=%d\n",
				q.Bid, q.Ask, q.Mid, q.Inventory, q.PnL, q.LatencyMicros)

			decision := c.AutoTrade()
			if decision.Message != "no-op" {
				logger.Info("auto-trade", "message", decision.Message)
			}

		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig.String())
			cancel()
			c.Destroy()
			if metricsServer != nil {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := metricsServer.Stop(shutdownCtx); err != nil {
					logger.Error("failed to stop metrics server", "error", err)
				}
			}
			return
		}
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
