package settlement

import (
	"math"
	"testing"
)

// TestTonsKgsRoundTrip: fromTotalKgs(toTotalKgs(t, k)) restores t and k for
// integral kgs in [0, 1000).
func TestTonsKgsRoundTrip(t *testing.T) {
	cases := []struct{ tons, kgs float64 }{
		{0, 0},
		{0, 1},
		{0, 999},
		{1, 0},
		{25, 430},
		{1000, 999},
	}
	for _, c := range cases {
		total := ToTotalKgs(c.tons, c.kgs)
		tons, kgs, ok := FromTotalKgs(total)
		if !ok {
			t.Fatalf("FromTotalKgs(%v) not ok", total)
		}
		if tons != c.tons || kgs != c.kgs {
			t.Errorf("round trip %v/%v -> %v/%v", c.tons, c.kgs, tons, kgs)
		}
	}
}

// Non-integral kgs are rounded on the way back.
func TestFromTotalKgsRounding(t *testing.T) {
	tons, kgs, ok := FromTotalKgs(25430.4)
	if !ok || tons != 25 || kgs != 430 {
		t.Errorf("FromTotalKgs(25430.4) = %v/%v/%v, want 25/430/true", tons, kgs, ok)
	}

	// Rounding the remainder up across a ton boundary must carry.
	tons, kgs, ok = FromTotalKgs(25999.7)
	if !ok || tons != 26 || kgs != 0 {
		t.Errorf("FromTotalKgs(25999.7) = %v/%v/%v, want 26/0/true", tons, kgs, ok)
	}
}

func TestFromTotalKgsGuards(t *testing.T) {
	for _, v := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, _, ok := FromTotalKgs(v); ok {
			t.Errorf("FromTotalKgs(%v) ok, want guard", v)
		}
	}
}

func TestToTotalKgsCoercion(t *testing.T) {
	if got := ToTotalKgs(-5, 200); got != 200 {
		t.Errorf("negative tons coerced: got %v, want 200", got)
	}
	if got := ToTotalKgs(math.NaN(), math.Inf(1)); got != 0 {
		t.Errorf("non-finite input coerced: got %v, want 0", got)
	}
}
