// Package portfolio implements the cash + base-asset inventory state
// machine with atomic execution semantics and pre-trade balance checks.
//
// The balance-check and the debit/credit of a single execution are made
// observably atomic by one short-held mutex guarding the whole
// (cash, base, inventory) triple — replacing the lock-free, bit-punned
// atomic design of the original implementation, which admits a latent
// double-spend under concurrent executions. Balances are held internally
// as fixedpoint.Value so that a buy/sell round-trip at a fixed price
// restores them bit-exactly, then surfaced as float64 at the package
// boundary, matching the Quote record's real-valued fields.
package portfolio

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mmcore/internal/fixedpoint"
	"mmcore/internal/metrics"
	"mmcore/pkg/model"
)

// Portfolio is the mutable, concurrency-safe balance and inventory state
// owned by the facade for the lifetime of one symbol.
type Portfolio struct {
	mu sync.Mutex

	cash      fixedpoint.Value
	base      fixedpoint.Value
	inventory int32

	initialCash fixedpoint.Value
	initialBase fixedpoint.Value

	logger *slog.Logger
}

// New constructs an empty Portfolio. Balances are set via SetInitial.
func New(logger *slog.Logger) *Portfolio {
	return &Portfolio{logger: logger.With("component", "portfolio")}
}

// SetInitial sets the initial and current cash/base balances, and derives
// inventory from floor(base) — fractional base holdings are intentionally
// lost for inventory-skew purposes.
func (p *Portfolio) SetInitial(cash, base float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cash = fixedpoint.FromFloat64(cash)
	p.base = fixedpoint.FromFloat64(base)
	p.initialCash = p.cash
	p.initialBase = p.base
	p.inventory = int32(base)
}

// SetInventory overwrites inventory directly, independent of base_balance.
func (p *Portfolio) SetInventory(q int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inventory = q
}

// Snapshot returns a point-in-time copy of the portfolio's balances.
func (p *Portfolio) Snapshot() model.PortfolioSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return model.PortfolioSnapshot{
		CashBalance: p.cash.ToFloat64(),
		BaseBalance: p.base.ToFloat64(),
		Inventory:   p.inventory,
		InitialCash: p.initialCash.ToFloat64(),
		InitialBase: p.initialBase.ToFloat64(),
	}
}

// Inventory returns the current signed inventory.
func (p *Portfolio) Inventory() int32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inventory
}

// ExecuteBuy attempts to buy q units at price p. It accepts iff
// cash >= q*p; on success cash decreases by q*p and base/inventory
// increase by q. Returns false (no state change) on rejection.
func (p *Portfolio) ExecuteBuy(q int32, price float64) bool {
	timer := metrics.NewTimer()
	defer func() {
		metrics.ExecutionLatencyUs.WithLabelValues(string(model.Buy)).Observe(float64(timer.ElapsedMicros()))
	}()

	qty := fixedpoint.FromFloat64(float64(q))
	px := fixedpoint.FromFloat64(price)
	cost := qty.Mul(px)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cash.Cmp(cost) < 0 {
		return false
	}

	p.cash = p.cash.Sub(cost)
	p.base = p.base.Add(qty)
	p.inventory += q

	p.logger.Debug("buy executed",
		"execution_id", uuid.New().String(),
		"qty", q,
		"price", price,
		"cash", decimal.NewFromFloat(p.cash.ToFloat64()).StringFixed(2),
		"base", decimal.NewFromFloat(p.base.ToFloat64()).StringFixed(8),
	)
	return true
}

// ExecuteSell attempts to sell q units at price p. It accepts iff
// base >= q; on success cash increases by q*p and base/inventory
// decrease by q. Returns false (no state change) on rejection.
func (p *Portfolio) ExecuteSell(q int32, price float64) bool {
	timer := metrics.NewTimer()
	defer func() {
		metrics.ExecutionLatencyUs.WithLabelValues(string(model.Sell)).Observe(float64(timer.ElapsedMicros()))
	}()

	qty := fixedpoint.FromFloat64(float64(q))
	px := fixedpoint.FromFloat64(price)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.base.Cmp(qty) < 0 {
		return false
	}

	proceeds := qty.Mul(px)
	p.cash = p.cash.Add(proceeds)
	p.base = p.base.Sub(qty)
	p.inventory -= q

	p.logger.Debug("sell executed",
		"execution_id", uuid.New().String(),
		"qty", q,
		"price", price,
		"cash", decimal.NewFromFloat(p.cash.ToFloat64()).StringFixed(2),
		"base", decimal.NewFromFloat(p.base.ToFloat64()).StringFixed(8),
	)
	return true
}
