// Package series contains the chart-data preparation core: candle
// validation, density-adaptive resampling, breakout boundary calculation,
// and rendering settings selection. All functions are stateless transforms
// over in-memory candle slices.
package series

import (
	"log"
	"math"
	"sort"

	"BreakoutBoard/internal/model"
)

// Validate cleans a raw candle sequence for downstream use.
//
// Entries with a non-finite or negative open/high/low/close are dropped.
// Ordering violations (high below the body, low above it) are repaired by
// widening high/low to the minimal consistent values, preserving data
// density over strict rejection. The result is sorted ascending by
// timestamp; on duplicate timestamps the later-provided entry wins and the
// collision is logged. An empty or entirely invalid input yields an empty
// result, never an error.
func Validate(candles []model.Candle) []model.Candle {
	if len(candles) == 0 {
		return nil
	}

	out := make([]model.Candle, 0, len(candles))
	for _, c := range candles {
		if !isFinite(c.Open) || !isFinite(c.High) || !isFinite(c.Low) || !isFinite(c.Close) {
			continue
		}
		if c.Open < 0 || c.High < 0 || c.Low < 0 || c.Close < 0 {
			continue
		}
		if !isFinite(c.Volume) || c.Volume < 0 {
			c.Volume = 0
		}
		// Widen high/low so low <= min(open, close) <= max(open, close) <= high.
		c.High = math.Max(c.High, math.Max(c.Open, c.Close))
		c.Low = math.Min(c.Low, math.Min(c.Open, c.Close))
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}

	// Stable sort keeps input order among equal timestamps, so the last
	// entry of a duplicate run is the later-provided one.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})

	dedup := out[:0]
	for i, c := range out {
		if i+1 < len(out) && out[i+1].Time.Equal(c.Time) {
			log.Printf("[WARN] duplicate candle timestamp %s, keeping later entry", c.Time.Format("2006-01-02 15:04:05"))
			continue
		}
		dedup = append(dedup, c)
	}
	return dedup
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
