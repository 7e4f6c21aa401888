package feed

import (
	"log/slog"
	"os"
	"strconv"
	"testing"
)

func testFeed() *Feed {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return New("BTCUSDT", logger, DefaultReconnectWait, DefaultPriceHistoryDepth)
}

func TestRealizedVolatilityDefaultWithFewSamples(t *testing.T) {
	f := testFeed()
	if got := f.RealizedVolatility(); got != defaultVol {
		t.Fatalf("empty history: got %v, want default %v", got, defaultVol)
	}

	f.handleTickerMessage([]byte(`{"c":"100.0"}`))
	if got := f.RealizedVolatility(); got != defaultVol {
		t.Fatalf("one sample: got %v, want default %v", got, defaultVol)
	}
}

func TestRealizedVolatilityClamp(t *testing.T) {
	f := testFeed()
	prices := []string{"100", "200", "50", "400", "25", "800", "10"}
	for _, p := range prices {
		f.handleTickerMessage([]byte(`{"c":"` + p + `"}`))
	}
	v := f.RealizedVolatility()
	if v < volFloor || v > volCeil {
		t.Fatalf("volatility %v outside clamp [%v,%v]", v, volFloor, volCeil)
	}
}

func TestLiquidityFactorNotLiveYet(t *testing.T) {
	f := testFeed()
	if got := f.LiquidityFactor(); got != 1.0 {
		t.Fatalf("got %v, want 1.0 when sides are not live", got)
	}
}

func TestLiquidityFactorClamp(t *testing.T) {
	f := testFeed()
	f.handleDepthMessage([]byte(`{"bids":[["100.0","1"]],"asks":[["100.01","1"]]}`))
	v := f.LiquidityFactor()
	if v < liquidityFloor || v > liquidityCeil {
		t.Fatalf("liquidity factor %v outside clamp [%v,%v]", v, liquidityFloor, liquidityCeil)
	}
}

func TestDepthMessageSkippedOnParseFailure(t *testing.T) {
	f := testFeed()
	f.handleDepthMessage([]byte(`{"bids":[["100.0","1"]],"asks":[["notanumber","1"]]}`))
	bid, ask := f.BestBidAsk()
	if bid != 0 || ask != 0 {
		t.Fatalf("expected no partial update, got bid=%v ask=%v", bid, ask)
	}
}

func TestPriceHistoryEvictionS7(t *testing.T) {
	f := testFeed()
	for i := 0; i < 1500; i++ {
		f.handleTickerMessage([]byte(`{"c":"` + strconv.Itoa(i) + `"}`))
	}
	if got := f.PriceHistoryLen(); got != DefaultPriceHistoryDepth {
		t.Fatalf("history length = %d, want %d", got, DefaultPriceHistoryDepth)
	}
	f.mu.RLock()
	oldest := f.priceHistory[0]
	newest := f.priceHistory[len(f.priceHistory)-1]
	f.mu.RUnlock()
	if oldest != 500 {
		t.Fatalf("oldest retained price = %v, want 500 (the 501st push)", oldest)
	}
	if newest != 1499 {
		t.Fatalf("newest retained price = %v, want 1499", newest)
	}
}

func TestPriceHistoryDepthIsConfigurable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	f := New("BTCUSDT", logger, DefaultReconnectWait, 10)

	for i := 0; i < 25; i++ {
		f.handleTickerMessage([]byte(`{"c":"` + strconv.Itoa(i) + `"}`))
	}
	if got := f.PriceHistoryLen(); got != 10 {
		t.Fatalf("history length = %d, want configured depth 10", got)
	}
}

func TestZeroValuesFallBackToDefaults(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	f := New("BTCUSDT", logger, 0, 0)

	if f.reconnectWait != DefaultReconnectWait {
		t.Fatalf("reconnectWait = %v, want default %v", f.reconnectWait, DefaultReconnectWait)
	}
	if f.priceHistoryDepth != DefaultPriceHistoryDepth {
		t.Fatalf("priceHistoryDepth = %v, want default %v", f.priceHistoryDepth, DefaultPriceHistoryDepth)
	}
}

