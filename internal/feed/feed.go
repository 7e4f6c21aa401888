// Package feed implements the concurrent, reconnecting market-data
// ingester: a ticker stream and a level-2 depth stream merged into one
// consistent market-state snapshot.
//
// Each stream runs as its own cooperative task under an errgroup.Group —
// the Go analogue of the original implementation's single worker thread
// hosting a cooperative runtime with two tasks. On any transport or
// envelope-level parse error the task waits a fixed reconnect interval
// (5 seconds by default, configurable through New) and reconnects; there
// is no retry cap.
package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"mmcore/internal/metrics"
)

// DefaultReconnectWait and DefaultPriceHistoryDepth are the engine's
// built-in tuning defaults (config.Defaults() mirrors these); New falls
// back to them when called with a zero value.
const (
	DefaultReconnectWait     = 5 * time.Second
	DefaultPriceHistoryDepth = 1000

	defaultVol     = 0.3
	volFloor       = 0.1
	volCeil        = 2.0
	liquidityFloor = 0.5
	liquidityCeil  = 2.0

	streamTicker = "ticker"
	streamDepth  = "depth"
)

// Feed owns the market-state snapshot {last, bid, ask, price_history} and
// the two background streams that keep it updated.
type Feed struct {
	symbol            string
	dialer            *websocket.Dialer
	logger            *slog.Logger
	reconnectWait     time.Duration
	priceHistoryDepth int

	mu           sync.RWMutex
	last         float64
	bid          float64
	ask          float64
	priceHistory []float64

	cancel context.CancelFunc
	group  *errgroup.Group
}

// New constructs a Feed for symbol (e.g. "BTCUSDT"). The feed is inert
// until Start is called. reconnectWait and priceHistoryDepth tune the
// fixed reconnect backoff and the retained ticker-price depth; a zero
// value for either falls back to the package default.
func New(symbol string, logger *slog.Logger, reconnectWait time.Duration, priceHistoryDepth int) *Feed {
	if reconnectWait <= 0 {
		reconnectWait = DefaultReconnectWait
	}
	if priceHistoryDepth <= 0 {
		priceHistoryDepth = DefaultPriceHistoryDepth
	}
	return &Feed{
		symbol:            symbol,
		dialer:            websocket.DefaultDialer,
		logger:            logger.With("component", "feed", "symbol", symbol),
		reconnectWait:     reconnectWait,
		priceHistoryDepth: priceHistoryDepth,
		priceHistory:      make([]float64, 0, priceHistoryDepth),
	}
}

func (f *Feed) tickerURL() string {
	return "wss://stream.binance.com:9443/ws/" + lowerSymbol(f.symbol) + "@ticker"
}

func (f *Feed) depthURL() string {
	return "wss://stream.binance.com:9443/ws/" + lowerSymbol(f.symbol) + "@depth5@100ms"
}

func lowerSymbol(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Start launches the ticker and depth stream tasks under a cancellable
// errgroup. It returns immediately; the streams run until Stop is called.
func (f *Feed) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)

	f.cancel = cancel
	f.group = g

	g.Go(func() error {
		f.runTickerLoop(gctx)
		return nil
	})
	g.Go(func() error {
		f.runDepthLoop(gctx)
		return nil
	})
}

// Stop cancels both stream tasks and waits for them to exit.
func (f *Feed) Stop() {
	if f.cancel == nil {
		return
	}
	f.cancel()
	_ = f.group.Wait()
}

func (f *Feed) runTickerLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := f.connectTicker(ctx); err != nil {
			f.logger.Debug("ticker stream disconnected", "error", err)
		}
		metrics.FeedReconnects.WithLabelValues(streamTicker).Inc()
		select {
		case <-ctx.Done():
			return
		case <-time.After(f.reconnectWait):
		}
	}
}

func (f *Feed) runDepthLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := f.connectDepth(ctx); err != nil {
			f.logger.Debug("depth stream disconnected", "error", err)
		}
		metrics.FeedReconnects.WithLabelValues(streamDepth).Inc()
		select {
		case <-ctx.Done():
			return
		case <-time.After(f.reconnectWait):
		}
	}
}

func (f *Feed) connectTicker(ctx context.Context) error {
	conn, _, err := f.dialer.DialContext(ctx, f.tickerURL(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		f.handleTickerMessage(msg)
	}
}

func (f *Feed) connectDepth(ctx context.Context) error {
	conn, _, err := f.dialer.DialContext(ctx, f.depthURL(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		f.handleDepthMessage(msg)
	}
}

type tickerPayload struct {
	LastPrice string `json:"c"`
}

func (f *Feed) handleTickerMessage(data []byte) {
	var p tickerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		metrics.FeedParseErrors.WithLabelValues(streamTicker).Inc()
		return
	}
	price, err := strconv.ParseFloat(p.LastPrice, 64)
	if err != nil {
		metrics.FeedParseErrors.WithLabelValues(streamTicker).Inc()
		return
	}

	f.mu.Lock()
	f.last = price
	f.priceHistory = append(f.priceHistory, price)
	if len(f.priceHistory) > f.priceHistoryDepth {
		f.priceHistory = f.priceHistory[len(f.priceHistory)-f.priceHistoryDepth:]
	}
	f.mu.Unlock()
}

type depthPayload struct {
	Bids [][2]string `json:"bids"`
	Asks [][2]string `json:"asks"`
}

func (f *Feed) handleDepthMessage(data []byte) {
	var p depthPayload
	if err := json.Unmarshal(data, &p); err != nil {
		metrics.FeedParseErrors.WithLabelValues(streamDepth).Inc()
		return
	}
	if len(p.Bids) == 0 || len(p.Asks) == 0 {
		metrics.FeedParseErrors.WithLabelValues(streamDepth).Inc()
		return
	}
	bid, err := strconv.ParseFloat(p.Bids[0][0], 64)
	if err != nil {
		metrics.FeedParseErrors.WithLabelValues(streamDepth).Inc()
		return
	}
	ask, err := strconv.ParseFloat(p.Asks[0][0], 64)
	if err != nil {
		metrics.FeedParseErrors.WithLabelValues(streamDepth).Inc()
		return
	}

	f.mu.Lock()
	f.bid = bid
	f.ask = ask
	f.mu.Unlock()
}

// LastPrice returns the most recent ticker last-trade price.
func (f *Feed) LastPrice() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.last
}

// BestBidAsk returns the most recent best bid/ask from the depth stream.
func (f *Feed) BestBidAsk() (bid, ask float64) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bid, f.ask
}

// PriceHistoryLen returns the current number of retained ticker prices.
func (f *Feed) PriceHistoryLen() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.priceHistory)
}

// RealizedVolatility computes sigma from the retained price history:
// annualized standard deviation of log-returns, clamped to [0.1, 2.0].
// Returns the default 0.3 when fewer than 2 samples are available.
func (f *Feed) RealizedVolatility() float64 {
	f.mu.RLock()
	prices := make([]float64, len(f.priceHistory))
	copy(prices, f.priceHistory)
	f.mu.RUnlock()

	if len(prices) < 2 {
		return defaultVol
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 0; i+1 < len(prices); i++ {
		if prices[i] == 0 {
			continue
		}
		returns = append(returns, math.Log(prices[i+1]/prices[i]))
	}
	if len(returns) == 0 {
		return defaultVol
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	sigma := math.Sqrt(variance) * math.Sqrt(252)
	return clamp(sigma, volFloor, volCeil)
}

// LiquidityFactor derives a scalar from the current bid/ask spread in
// basis points: tighter spreads yield a higher factor, clamped to
// [0.5, 2.0]. Returns 1.0 while either side has not yet gone live.
func (f *Feed) LiquidityFactor() float64 {
	bid, ask := f.BestBidAsk()
	if bid <= 0 || ask <= 0 {
		return 1.0
	}
	spreadBps := (ask - bid) / ((ask + bid) / 2) * 10000
	if spreadBps == 0 {
		return liquidityCeil
	}
	return clamp(20/spreadBps, liquidityFloor, liquidityCeil)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
