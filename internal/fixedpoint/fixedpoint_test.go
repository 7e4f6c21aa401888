package fixedpoint

import "testing"

func TestFromFloat64RoundTrip(t *testing.T) {
	cases := []float64{0, 1, -1, 100.5, 99.35012, 0.000001, -12345.654321}
	for _, c := range cases {
		got := FromFloat64(c).ToFloat64()
		if diff := got - c; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("FromFloat64(%v).ToFloat64() = %v, diff %v exceeds scale unit", c, got, diff)
		}
	}
}

func TestAddSubRoundTrip(t *testing.T) {
	a := FromFloat64(100.0)
	q := FromFloat64(5)
	p := FromFloat64(100.0)

	cost := q.Mul(p)
	afterBuy := a.Sub(cost)
	afterSell := afterBuy.Add(cost)

	if afterSell != a {
		t.Fatalf("round trip not bit-exact: start=%+v end=%+v", a, afterSell)
	}
}

func TestMulDiv(t *testing.T) {
	q := FromFloat64(5)
	p := FromFloat64(20)
	got := q.Mul(p).ToFloat64()
	if got != 100 {
		t.Fatalf("5*20 = %v, want 100", got)
	}

	d := FromFloat64(100).Div(FromFloat64(4)).ToFloat64()
	if d != 25 {
		t.Fatalf("100/4 = %v, want 25", d)
	}
}

func TestCmpAndPredicates(t *testing.T) {
	if !FromFloat64(1).IsPositive() {
		t.Fatal("1 should be positive")
	}
	if !Zero.IsZero() {
		t.Fatal("zero value should report IsZero")
	}
	if FromFloat64(1).Cmp(FromFloat64(2)) != -1 {
		t.Fatal("1 should compare less than 2")
	}
	if !FromFloat64(3).GreaterOrEqual(FromFloat64(3)) {
		t.Fatal("3 should be >= 3")
	}
}
