package calculator

import (
	"errors"
	"math"

	"BreakoutBoard/internal/model"
)

// TrueRange returns the true range of bar i: the largest of high-low,
// |high - prevClose| and |low - prevClose|. For the first bar it is high-low.
func TrueRange(bars []model.Candle, i int) float64 {
	tr := bars[i].High - bars[i].Low
	if i == 0 {
		return tr
	}
	prev := bars[i-1].Close
	if d := math.Abs(bars[i].High - prev); d > tr {
		tr = d
	}
	if d := math.Abs(bars[i].Low - prev); d > tr {
		tr = d
	}
	return tr
}

// ATR computes the Wilder-smoothed average true range for every bar,
// seeding the running average with the first bar's true range. Returns one
// value per input bar.
func ATR(bars []model.Candle, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(bars) == 0 {
		return nil, nil
	}

	alpha := 1.0 / float64(period)
	out := make([]float64, len(bars))
	out[0] = TrueRange(bars, 0)
	for i := 1; i < len(bars); i++ {
		out[i] = alpha*TrueRange(bars, i) + (1-alpha)*out[i-1]
	}
	return out, nil
}
