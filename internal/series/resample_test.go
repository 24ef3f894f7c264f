package series

import (
	"testing"

	"BreakoutBoard/internal/model"
)

// genCandles builds a gently drifting synthetic series of n daily candles.
func genCandles(n int) []model.Candle {
	out := make([]model.Candle, n)
	price := 1000.0
	for i := 0; i < n; i++ {
		price *= 1.0005
		out[i] = model.Candle{
			Time:   day(i),
			Open:   price * 0.999,
			High:   price * 1.004,
			Low:    price * 0.996,
			Close:  price,
			Volume: 1000,
		}
	}
	return out
}

func assertChronological(t *testing.T, candles []model.Candle) {
	t.Helper()
	for i := 1; i < len(candles); i++ {
		if !candles[i-1].Time.Before(candles[i].Time) {
			t.Fatalf("output not chronological at index %d", i)
		}
	}
}

func TestResample_PassThrough(t *testing.T) {
	in := genCandles(90)
	out := Resample(in, 0)
	if len(out) != 90 {
		t.Fatalf("90 candles should pass through, got %d", len(out))
	}
}

func TestResample_Empty(t *testing.T) {
	if out := Resample(nil, 0); len(out) != 0 {
		t.Errorf("empty input should yield empty output")
	}
}

func TestResample_Decimation(t *testing.T) {
	in := genCandles(1600)
	out := Resample(in, 0)
	if len(out) >= len(in) {
		t.Fatalf("decimation should reduce length, got %d", len(out))
	}
	// k = ceil(1600/800) = 2, so roughly half survive.
	if len(out) < 790 || len(out) > 810 {
		t.Errorf("expected around 800 candles, got %d", len(out))
	}
	if !out[len(out)-1].Time.Equal(in[len(in)-1].Time) {
		t.Errorf("final candle must always be kept")
	}
	assertChronological(t, out)
}

func TestResample_DecimationKeepsFinalOffStride(t *testing.T) {
	// 1601 candles gives k=3, and the last index 1600 is off the stride grid.
	in := genCandles(1601)
	out := Resample(in, 0)
	if !out[len(out)-1].Time.Equal(in[len(in)-1].Time) {
		t.Fatalf("final candle must be kept regardless of stride alignment")
	}
}

func TestResample_Aggregation(t *testing.T) {
	in := genCandles(3000)
	// Window = ceil(3000/1500) = 2. Spike one candle inside a known window.
	in[100].High = 99999
	in[100].Volume = 7777

	out := Resample(in, 0)
	if len(out) != 1500 {
		t.Fatalf("expected 1500 aggregated candles, got %d", len(out))
	}
	assertChronological(t, out)

	// Window [100,101] lands at output index 50.
	agg := out[50]
	if agg.High != 99999 {
		t.Errorf("aggregated high should be the window max, got %g", agg.High)
	}
	wantVol := 7777.0 + in[101].Volume
	if agg.Volume != wantVol {
		t.Errorf("aggregated volume should be the window sum %g, got %g", wantVol, agg.Volume)
	}
	if agg.Open != in[100].Open {
		t.Errorf("aggregated open should come from the first window member")
	}
	if agg.Close != in[101].Close {
		t.Errorf("aggregated close should come from the last window member")
	}
	if !agg.Time.Equal(in[101].Time) {
		t.Errorf("aggregated timestamp should come from the last window member")
	}
}

func TestResample_LandmarkKeepsSignificantMove(t *testing.T) {
	in := genCandles(6000)
	// Single-step 10% close jump at an off-stride index (stride=3).
	jump := 3001
	in[jump].Close = in[jump-1].Close * 1.10

	out := Resample(in, 0)
	if len(out) >= len(in) {
		t.Fatalf("landmark sampling should reduce length")
	}
	assertChronological(t, out)

	found := false
	for _, c := range out {
		if c.Time.Equal(in[jump].Time) {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("significant move at index %d must survive sampling", jump)
	}
	if !out[0].Time.Equal(in[0].Time) || !out[len(out)-1].Time.Equal(in[len(in)-1].Time) {
		t.Errorf("endpoints must always be kept")
	}
}

func TestResample_LandmarkBoundsGaps(t *testing.T) {
	in := genCandles(6000)
	out := Resample(in, 0)

	// stride = ceil(6000/2500) = 3; no gap may exceed 2*stride.
	prev := 0
	idx := make(map[int64]int, len(in))
	for i, c := range in {
		idx[c.Time.UnixMilli()] = i
	}
	for _, c := range out[1:] {
		i := idx[c.Time.UnixMilli()]
		if i-prev > 6+1 {
			t.Fatalf("gap of %d candles between kept indices %d and %d", i-prev, prev, i)
		}
		prev = i
	}
}

func TestResample_Idempotent(t *testing.T) {
	in := genCandles(1600)
	once := Resample(in, 0)
	twice := Resample(once, 0)
	if len(once) != len(twice) {
		t.Fatalf("second pass changed length: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("second pass changed candle at index %d", i)
		}
	}
}

func TestResample_OutputNeverLonger(t *testing.T) {
	for _, n := range []int{0, 1, 90, 1000, 1001, 2000, 2001, 5000, 5001, 8000} {
		in := genCandles(n)
		out := Resample(in, 0)
		if len(out) > len(in) {
			t.Errorf("n=%d: output %d longer than input", n, len(out))
		}
	}
}

func TestResample_MaxPointsRaisesPassThrough(t *testing.T) {
	in := genCandles(1600)
	out := Resample(in, 2000)
	if len(out) != 1600 {
		t.Errorf("maxPoints=2000 should pass 1600 candles through, got %d", len(out))
	}
}
