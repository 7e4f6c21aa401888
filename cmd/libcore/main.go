// Command libcore builds as a C shared library (-buildmode=c-shared)
// exposing the trading core through a thin cgo adapter. Opaque core
// handles are runtime/cgo.Handle values cast to uintptr so a Go-owned
// object can cross the C ABI boundary without violating cgo's
// pointer-passing rules. This file carries no business logic of its own;
// every operation delegates to internal/core.
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"context"
	"log/slog"
	"os"
	"runtime/cgo"
	"unsafe"

	"mmcore/internal/config"
	"mmcore/internal/core"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// cfg tunes every Core this adapter constructs. Config is not part of the
// exported C ABI (internal/config's doc comment is explicit about this), so
// it is loaded once from the same MMCORE_CONFIG file/env surface cmd/coretool
// uses, falling back to config.Defaults() on any load or validation error.
var cfg = loadConfig()

func loadConfig() *config.Config {
	c, err := config.Load(os.Getenv("MMCORE_CONFIG"))
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		return config.Defaults()
	}
	if err := c.Validate(); err != nil {
		logger.Warn("invalid config, using defaults", "error", err)
		return config.Defaults()
	}
	return c
}

// cQuote mirrors the Quote record's authoritative field order and types.
type cQuote struct {
	Bid           C.double
	Ask           C.double
	Mid           C.double
	Inventory     C.int32_t
	MarketBid     C.double
	MarketAsk     C.double
	Spread        C.double
	USDBalance    C.double
	BTCBalance    C.double
	PnL           C.double
	LatencyMicros C.uint64_t
}

//export create_core
func create_core(symbol *C.char) C.uintptr_t {
	sym := C.GoString(symbol)
	c := core.New(sym, cfg, logger)
	h := cgo.NewHandle(c)
	return C.uintptr_t(h)
}

//export start_market_data
func start_market_data(handle C.uintptr_t) {
	c := coreFromHandle(handle)
	c.StartMarketData(context.Background())
}

//export set_initial_portfolio
func set_initial_portfolio(handle C.uintptr_t, cash, base C.double) {
	c := coreFromHandle(handle)
	c.SetInitialPortfolio(float64(cash), float64(base))
}

//export get_current_quote
func get_current_quote(handle C.uintptr_t) cQuote {
	c := coreFromHandle(handle)
	q := c.GetCurrentQuote()
	return cQuote{
		Bid:           C.double(q.Bid),
		Ask:           C.double(q.Ask),
		Mid:           C.double(q.Mid),
		Inventory:     C.int32_t(q.Inventory),
		MarketBid:     C.double(q.MarketBid),
		MarketAsk:     C.double(q.MarketAsk),
		Spread:        C.double(q.Spread),
		USDBalance:    C.double(q.USDBalance),
		BTCBalance:    C.double(q.BTCBalance),
		PnL:           C.double(q.PnL),
		LatencyMicros: C.uint64_t(q.LatencyMicros),
	}
}

//export simulate_buy_trade
func simulate_buy_trade(handle C.uintptr_t, quantity C.int32_t) C.int32_t {
	c := coreFromHandle(handle)
	if c.SimulateBuyTrade(int32(quantity)) {
		return 1
	}
	return 0
}

//export simulate_sell_trade
func simulate_sell_trade(handle C.uintptr_t, quantity C.int32_t) C.int32_t {
	c := coreFromHandle(handle)
	if c.SimulateSellTrade(int32(quantity)) {
		return 1
	}
	return 0
}

//export auto_trade
func auto_trade(handle C.uintptr_t, outBuf *C.uint8_t, length C.int32_t) C.int32_t {
	c := coreFromHandle(handle)
	decision := c.AutoTrade()
	if decision.Message == "no-op" {
		return 0
	}

	msg := decision.Message
	buf := (*[1 << 30]byte)(unsafe.Pointer(outBuf))[:int(length):int(length)]
	n := copy(buf[:len(buf)-1], msg)
	buf[n] = 0
	return 1
}

//export destroy_core
func destroy_core(handle C.uintptr_t) {
	h := cgo.Handle(handle)
	c := h.Value().(*core.Core)
	c.Destroy()
	h.Delete()
}

func coreFromHandle(handle C.uintptr_t) *core.Core {
	h := cgo.Handle(handle)
	return h.Value().(*core.Core)
}

func main() {}
