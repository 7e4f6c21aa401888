// Package autotrade implements the rebalancing controller: a dynamic
// target and threshold derived from time-of-day and realized volatility,
// and a risk-bounded trade size, turned into a synchronous buy/sell call
// against the portfolio engine.
package autotrade

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"mmcore/internal/portfolio"
	"mmcore/pkg/model"
)

const (
	secondsPerDay  = 86400
	fadeStart      = 0.75
	targetFraction = 0.8
	baseThreshold  = 5.0
	sizeFraction   = 0.3
	minTradeSize   = 1
	maxTradeSize   = 5
	volScalarFloor = 0.5
	volScalarCeil  = 2.0
	thresholdFloor = 0.2
)

// Controller decides whether and how to rebalance inventory toward a
// time- and volatility-scaled target.
type Controller struct {
	clock  func() time.Time
	logger *slog.Logger
}

// New constructs a Controller using the real wall clock.
func New(logger *slog.Logger) *Controller {
	return &Controller{clock: time.Now, logger: logger.With("component", "autotrade")}
}

// WithClock overrides the wall-clock source — used by tests and by hosts
// that want to simulate a trading day.
func (c *Controller) WithClock(clock func() time.Time) *Controller {
	c.clock = clock
	return c
}

// timeToCloseFactor derives a fade-to-zero scalar from wall-clock seconds
// within a 24-hour epoch cycle: 1.0 for the first three-quarters of the
// day, then linearly fading to 0 over the last quarter.
func (c *Controller) timeToCloseFactor() float64 {
	now := c.clock().Unix()
	t := now % secondsPerDay
	if t < 0 {
		t += secondsPerDay
	}
	p := float64(t) / float64(secondsPerDay)
	if p < fadeStart {
		return 1.0
	}
	return (1 - p) * 4.0
}

func volScalar(sigma float64) float64 {
	return clamp(sigma/0.3, volScalarFloor, volScalarCeil)
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

// Tick runs one controller invocation against the current portfolio and
// market state, executing at most one trade.
func (c *Controller) Tick(p *portfolio.Portfolio, mid, sigma float64, initialBase float64) model.Decision {
	inventory := p.Inventory()
	timeFactor := c.timeToCloseFactor()
	scalar := volScalar(sigma)

	target := int32(math.Floor(initialBase * timeFactor * targetFraction))
	threshold := int32(math.Floor(baseThreshold * scalar * math.Max(timeFactor, thresholdFloor)))

	deviation := inventory - target
	absDev := deviation
	if absDev < 0 {
		absDev = -absDev
	}

	tradeSize := int32(math.Ceil(float64(absDev) * sizeFraction))
	if tradeSize < minTradeSize {
		tradeSize = minTradeSize
	}
	if tradeSize > maxTradeSize {
		tradeSize = maxTradeSize
	}

	now := c.clock()

	if absDev <= threshold {
		return model.Decision{
			Executed:  false,
			Inventory: inventory,
			Target:    target,
			Threshold: threshold,
			Message:   "no-op",
			Timestamp: now,
		}
	}

	var side model.Side
	var executed bool
	var newInventory int32

	if deviation > 0 {
		side = model.Sell
		executed = p.ExecuteSell(tradeSize, mid)
		newInventory = inventory - tradeSize
	} else {
		side = model.Buy
		executed = p.ExecuteBuy(tradeSize, mid)
		newInventory = inventory + tradeSize
	}

	var message string
	if executed {
		message = fmt.Sprintf("%s %d BTC (inv:%d->%d, tgt:%d, thr:%d)",
			side, tradeSize, inventory, newInventory, target, threshold)
	} else {
		message = "TRADE failed (insufficient balance)"
		newInventory = inventory
	}

	c.logger.Debug("auto-trade tick", "message", message, "executed", executed)

	return model.Decision{
		Executed:     executed,
		Side:         side,
		Size:         tradeSize,
		Inventory:    inventory,
		NewInventory: newInventory,
		Target:       target,
		Threshold:    threshold,
		Message:      message,
		Timestamp:    now,
	}
}
