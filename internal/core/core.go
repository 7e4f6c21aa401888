// Package core is the trading-core facade: the composition root that owns
// the feed, quoting engine, portfolio, and auto-trade controller for one
// symbol's lifetime, and exposes the operations the foreign-callable
// surface delegates to.
//
// Lifecycle: New(symbol) → SetInitialPortfolio → StartMarketData →
// GetCurrentQuote / SimulateBuyTrade / SimulateSellTrade / AutoTrade,
// callable concurrently → Destroy.
package core

import (
	"context"
	"log/slog"

	"mmcore/internal/autotrade"
	"mmcore/internal/config"
	"mmcore/internal/feed"
	"mmcore/internal/metrics"
	"mmcore/internal/portfolio"
	"mmcore/internal/quoting"
	"mmcore/pkg/model"
)

// Core composes the four sub-components behind a single handle.
type Core struct {
	symbol    string
	feed      *feed.Feed
	quoting   *quoting.Engine
	portfolio *portfolio.Portfolio
	autotrade *autotrade.Controller

	logger *slog.Logger
}

// New constructs a Core for symbol, tuned by cfg's Quoting and Feed
// sections. The feed is not yet started; call SetInitialPortfolio then
// StartMarketData before reading quotes.
func New(symbol string, cfg *config.Config, logger *slog.Logger) *Core {
	logger = logger.With("component", "core", "symbol", symbol)
	return &Core{
		symbol: symbol,
		feed: feed.New(symbol, logger,
			cfg.Feed.ReconnectWait, cfg.Feed.PriceHistoryDepth),
		quoting:   quoting.New(cfg.Quoting.Gamma, cfg.Quoting.K),
		portfolio: portfolio.New(logger),
		autotrade: autotrade.New(logger),
		logger:    logger,
	}
}

// SetInitialPortfolio sets initial cash/base balances and derives
// inventory from floor(base).
func (c *Core) SetInitialPortfolio(cash, base float64) {
	c.portfolio.SetInitial(cash, base)
}

// StartMarketData spawns the feed's ticker and depth stream tasks. Call
// exactly once, after SetInitialPortfolio.
func (c *Core) StartMarketData(ctx context.Context) {
	c.feed.Start(ctx)
	c.logger.Info("market data started")
}

// GetCurrentQuote produces the immutable snapshot described by the
// facade's seven-step procedure, stamping latency_us with the elapsed
// wall time of this call.
func (c *Core) GetCurrentQuote() model.Quote {
	timer := metrics.NewTimer()

	mid := c.feed.LastPrice()
	marketBid, marketAsk := c.feed.BestBidAsk()
	inventory := c.portfolio.Inventory()
	sigma := c.feed.RealizedVolatility()

	optimal := c.quoting.OptimalQuotes(0, mid, inventory, sigma)

	snap := c.portfolio.Snapshot()
	pnl := (snap.CashBalance - snap.InitialCash) + (snap.BaseBalance-snap.InitialBase)*mid

	latency := timer.ElapsedMicros()
	metrics.QuoteLatencyUs.Observe(float64(latency))

	return model.Quote{
		Bid:           optimal.Bid,
		Ask:           optimal.Ask,
		Mid:           mid,
		Inventory:     inventory,
		MarketBid:     marketBid,
		MarketAsk:     marketAsk,
		Spread:        marketAsk - marketBid,
		USDBalance:    snap.CashBalance,
		BTCBalance:    snap.BaseBalance,
		PnL:           pnl,
		LatencyMicros: latency,
	}
}

// SimulateBuyTrade fills at the current market ask. Returns true on fill.
func (c *Core) SimulateBuyTrade(q int32) bool {
	_, ask := c.feed.BestBidAsk()
	return c.portfolio.ExecuteBuy(q, ask)
}

// SimulateSellTrade fills at the current market bid. Returns true on fill.
func (c *Core) SimulateSellTrade(q int32) bool {
	bid, _ := c.feed.BestBidAsk()
	return c.portfolio.ExecuteSell(q, bid)
}

// AutoTrade runs one rebalancing controller tick.
func (c *Core) AutoTrade() model.Decision {
	mid := c.feed.LastPrice()
	sigma := c.feed.RealizedVolatility()
	snap := c.portfolio.Snapshot()
	return c.autotrade.Tick(c.portfolio, mid, sigma, snap.InitialBase)
}

// Destroy stops the feed and releases all resources the Core holds.
func (c *Core) Destroy() {
	c.feed.Stop()
	c.logger.Info("core destroyed")
}
