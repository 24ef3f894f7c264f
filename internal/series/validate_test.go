package series

import (
	"math"
	"testing"
	"time"

	"BreakoutBoard/internal/model"
)

func day(i int) time.Time {
	return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func flatCandle(i int, price float64) model.Candle {
	return model.Candle{
		Time: day(i), Open: price, High: price, Low: price, Close: price, Volume: 100,
	}
}

func TestValidate_DropsNonFiniteAndNegative(t *testing.T) {
	in := []model.Candle{
		flatCandle(0, 100),
		{Time: day(1), Open: math.NaN(), High: 101, Low: 99, Close: 100},
		{Time: day(2), Open: 100, High: math.Inf(1), Low: 99, Close: 100},
		{Time: day(3), Open: 100, High: 101, Low: -5, Close: 100},
		flatCandle(4, 102),
	}
	out := Validate(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 valid candles, got %d", len(out))
	}
	if !out[0].Time.Equal(day(0)) || !out[1].Time.Equal(day(4)) {
		t.Errorf("wrong candles survived: %v, %v", out[0].Time, out[1].Time)
	}
}

func TestValidate_RepairsHighLow(t *testing.T) {
	in := []model.Candle{
		{Time: day(0), Open: 105, High: 103, Low: 104, Close: 110, Volume: 10},
	}
	out := Validate(in)
	if len(out) != 1 {
		t.Fatalf("expected candle to be repaired, not dropped")
	}
	if out[0].High != 110 {
		t.Errorf("high should widen to 110, got %g", out[0].High)
	}
	if out[0].Low != 104 {
		t.Errorf("low should widen to 104, got %g", out[0].Low)
	}
}

func TestValidate_SortsAndDeduplicates(t *testing.T) {
	in := []model.Candle{
		flatCandle(2, 102),
		flatCandle(0, 100),
		flatCandle(1, 101),
		flatCandle(1, 201), // duplicate timestamp, provided later
	}
	out := Validate(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 candles after dedup, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if !out[i-1].Time.Before(out[i].Time) {
			t.Fatalf("output not strictly ascending at index %d", i)
		}
	}
	if out[1].Close != 201 {
		t.Errorf("duplicate timestamp should keep the later entry, got close=%g", out[1].Close)
	}
}

func TestValidate_NegativeVolumeRepaired(t *testing.T) {
	in := []model.Candle{
		{Time: day(0), Open: 100, High: 101, Low: 99, Close: 100, Volume: -50},
	}
	out := Validate(in)
	if len(out) != 1 {
		t.Fatalf("negative volume should not drop the candle")
	}
	if out[0].Volume != 0 {
		t.Errorf("negative volume should be zeroed, got %g", out[0].Volume)
	}
}

func TestValidate_EmptyAndAllInvalid(t *testing.T) {
	if out := Validate(nil); len(out) != 0 {
		t.Errorf("nil input should yield empty output")
	}
	in := []model.Candle{
		{Time: day(0), Open: math.NaN(), High: 1, Low: 1, Close: 1},
	}
	if out := Validate(in); len(out) != 0 {
		t.Errorf("entirely invalid input should yield empty output")
	}
}
