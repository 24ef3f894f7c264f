package series

import (
	"testing"

	"BreakoutBoard/internal/model"
)

func TestComputeBoundaries_InvalidConfig(t *testing.T) {
	in := genCandles(50)
	if _, err := ComputeBoundaries(in, 0, 0.5); err == nil {
		t.Error("expected error for zero lookback")
	}
	if _, err := ComputeBoundaries(in, -3, 0.5); err == nil {
		t.Error("expected error for negative lookback")
	}
	if _, err := ComputeBoundaries(in, 20, -0.1); err == nil {
		t.Error("expected error for negative range multiplier")
	}
}

func TestComputeBoundaries_Empty(t *testing.T) {
	out, err := ComputeBoundaries(nil, 20, 0.5)
	if err != nil {
		t.Fatalf("empty input should not error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("empty input should yield empty output")
	}
}

func TestComputeBoundaries_WarmupIsNil(t *testing.T) {
	in := genCandles(50)
	out, err := ComputeBoundaries(in, 20, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 50 {
		t.Fatalf("expected one entry per candle, got %d", len(out))
	}
	for i := 0; i < 20; i++ {
		if out[i] != nil {
			t.Fatalf("index %d within warmup should be nil", i)
		}
	}
	for i := 20; i < 50; i++ {
		if out[i] == nil {
			t.Fatalf("index %d past warmup should be set", i)
		}
	}
}

func TestComputeBoundaries_WorkedExample(t *testing.T) {
	// Window highs max out at 110 and lows bottom at 90, candle 20 opens at
	// 100: upper = 100 + (110-90)*0.5 = 110, lower = 90.
	in := make([]model.Candle, 21)
	for i := 0; i < 20; i++ {
		in[i] = model.Candle{Time: day(i), Open: 100, High: 105, Low: 95, Close: 100}
	}
	in[7].High = 110
	in[13].Low = 90
	in[20] = model.Candle{Time: day(20), Open: 100, High: 500, Low: 1, Close: 100}

	out, err := ComputeBoundaries(in, 20, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	b := out[20]
	if b == nil {
		t.Fatal("boundary at index 20 should be set")
	}
	if b.Upper != 110 {
		t.Errorf("upper boundary: want 110, got %g", b.Upper)
	}
	if b.Lower != 90 {
		t.Errorf("lower boundary: want 90, got %g", b.Lower)
	}
}

func TestComputeBoundaries_NoLookahead(t *testing.T) {
	in := genCandles(60)
	base, err := ComputeBoundaries(in, 20, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	// Mutating candle 30's own high/low must not change its own boundary.
	mutated := make([]model.Candle, len(in))
	copy(mutated, in)
	mutated[30].High = 1e9
	mutated[30].Low = 0.0001

	changed, err := ComputeBoundaries(mutated, 20, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if *changed[30] != *base[30] {
		t.Errorf("boundary at 30 must not depend on candle 30's own high/low")
	}
	// The following candle's window does include candle 30.
	if *changed[31] == *base[31] {
		t.Errorf("boundary at 31 should reflect candle 30's new extremes")
	}
}

func TestComputeBoundaries_MatchesNaiveScan(t *testing.T) {
	in := genCandles(300)
	// Add some structure so the deques actually work.
	in[50].High *= 1.2
	in[120].Low *= 0.8
	in[200].High *= 1.3

	fast, err := ComputeBoundaries(in, 25, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 25; i < len(in); i++ {
		hi, lo := in[i-25].High, in[i-25].Low
		for j := i - 25; j < i; j++ {
			if in[j].High > hi {
				hi = in[j].High
			}
			if in[j].Low < lo {
				lo = in[j].Low
			}
		}
		wantUpper := in[i].Open + (hi-lo)*0.4
		wantLower := in[i].Open - (hi-lo)*0.4
		if fast[i].Upper != wantUpper || fast[i].Lower != wantLower {
			t.Fatalf("index %d: got (%g, %g), want (%g, %g)",
				i, fast[i].Upper, fast[i].Lower, wantUpper, wantLower)
		}
	}
}
