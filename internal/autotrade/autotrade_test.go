package autotrade

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"mmcore/internal/portfolio"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func atNoon() time.Time {
	return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
}

func TestNoOpWhenInventoryAtTargetS6(t *testing.T) {
	c := New(testLogger()).WithClock(atNoon)
	p := portfolio.New(testLogger())
	p.SetInitial(1000, 0)
	p.SetInventory(0)

	d := c.Tick(p, 100.0, 0.3, 0)
	if d.Executed {
		t.Fatalf("expected no-op, got executed trade: %+v", d)
	}
	if d.Message != "no-op" {
		t.Fatalf("message = %q, want no-op", d.Message)
	}
}

func TestTimeToCloseFactorFadesInLastQuarter(t *testing.T) {
	lateDay := func() time.Time {
		return time.Unix(86400*10+int64(0.9*86400), 0).UTC()
	}
	c := New(testLogger()).WithClock(lateDay)
	factor := c.timeToCloseFactor()
	if factor <= 0 || factor >= 1.0 {
		t.Fatalf("factor = %v, want in (0,1) during fade window", factor)
	}
}

func TestTimeToCloseFactorFullEarlyInDay(t *testing.T) {
	earlyDay := func() time.Time {
		return time.Unix(86400*10+100, 0).UTC()
	}
	c := New(testLogger()).WithClock(earlyDay)
	if got := c.timeToCloseFactor(); got != 1.0 {
		t.Fatalf("factor = %v, want 1.0 early in the day", got)
	}
}

func TestVolScalarClamp(t *testing.T) {
	if got := volScalar(0.01); got != volScalarFloor {
		t.Fatalf("got %v, want floor %v", got, volScalarFloor)
	}
	if got := volScalar(10.0); got != volScalarCeil {
		t.Fatalf("got %v, want ceil %v", got, volScalarCeil)
	}
}

func TestSellsWhenOverInventory(t *testing.T) {
	c := New(testLogger()).WithClock(atNoon)
	p := portfolio.New(testLogger())
	p.SetInitial(0, 100)
	p.SetInventory(100)

	d := c.Tick(p, 100.0, 0.3, 0)
	if !d.Executed {
		t.Fatalf("expected trade to execute: %+v", d)
	}
	if d.Side != "SELL" {
		t.Fatalf("side = %v, want SELL", d.Side)
	}
}
