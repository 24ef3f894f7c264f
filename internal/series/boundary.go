package series

import (
	"fmt"

	"BreakoutBoard/internal/model"
)

// ComputeBoundaries derives the per-candle breakout boundaries from the
// trailing highest-high/lowest-low range.
//
// For each index i >= lookback the window is candles[i-lookback .. i-1]:
// exactly lookback prior candles, never including candle i itself, so a
// candle's own high/low cannot influence its own boundary. Entries for the
// first lookback candles are nil. Boundaries must be computed on the
// full-resolution validated sequence; aggregated candles change the
// window's high/low composition and would corrupt the result.
//
// The rolling max/min are maintained with monotonic index deques, so the
// whole pass is O(n).
func ComputeBoundaries(candles []model.Candle, lookback int, rangeMult float64) ([]*model.BoundaryPoint, error) {
	if lookback <= 0 {
		return nil, fmt.Errorf("lookback must be positive, got %d", lookback)
	}
	if rangeMult < 0 {
		return nil, fmt.Errorf("range multiplier must be non-negative, got %g", rangeMult)
	}

	n := len(candles)
	if n == 0 {
		return nil, nil
	}

	out := make([]*model.BoundaryPoint, n)

	// maxIdx holds indices of candidate highs in decreasing order of High;
	// minIdx holds candidate lows in increasing order of Low.
	maxIdx := make([]int, 0, lookback+1)
	minIdx := make([]int, 0, lookback+1)

	for i := 0; i < n; i++ {
		// The previous candle enters the window of candle i.
		if i > 0 {
			j := i - 1
			for len(maxIdx) > 0 && candles[maxIdx[len(maxIdx)-1]].High <= candles[j].High {
				maxIdx = maxIdx[:len(maxIdx)-1]
			}
			maxIdx = append(maxIdx, j)
			for len(minIdx) > 0 && candles[minIdx[len(minIdx)-1]].Low >= candles[j].Low {
				minIdx = minIdx[:len(minIdx)-1]
			}
			minIdx = append(minIdx, j)
		}

		// Evict indices that fell out of the trailing window.
		for len(maxIdx) > 0 && maxIdx[0] < i-lookback {
			maxIdx = maxIdx[1:]
		}
		for len(minIdx) > 0 && minIdx[0] < i-lookback {
			minIdx = minIdx[1:]
		}

		if i < lookback {
			continue
		}

		rng := candles[maxIdx[0]].High - candles[minIdx[0]].Low
		out[i] = &model.BoundaryPoint{
			Time:  candles[i].Time,
			Upper: candles[i].Open + rng*rangeMult,
			Lower: candles[i].Open - rng*rangeMult,
		}
	}
	return out, nil
}
