package series

import (
	"BreakoutBoard/internal/model"
)

// Resampling tier boundaries and targets. Inputs at or below the
// pass-through threshold are returned unchanged; beyond it the policy
// escalates from stride decimation to window aggregation to
// landmark-preserving sampling.
const (
	passThroughLimit = 1000
	decimateLimit    = 2000
	aggregateLimit   = 5000

	decimateTarget   = 800
	aggregateBuckets = 1500
	landmarkTarget   = 2500

	// Relative close-to-close move that forces a candle to be kept by the
	// landmark sampler regardless of stride alignment.
	landmarkMoveThreshold = 0.05
)

// Resample reduces a candle sequence to a density suitable for rendering.
// maxPoints raises the pass-through threshold above the default of 1000;
// zero or negative means use the default. Output is chronologically ordered,
// never longer than the input, and re-running with the same maxPoints on an
// already reduced result is a no-op. Empty input yields empty output.
func Resample(candles []model.Candle, maxPoints int) []model.Candle {
	n := len(candles)
	if n == 0 {
		return nil
	}

	limit := passThroughLimit
	if maxPoints > limit {
		limit = maxPoints
	}

	switch {
	case n <= limit:
		return candles
	case n <= decimateLimit:
		return decimate(candles)
	case n <= aggregateLimit:
		return aggregate(candles)
	default:
		return sampleLandmarks(candles)
	}
}

// decimate keeps every k-th candle, k chosen to land near decimateTarget
// points. The final candle is always kept regardless of stride alignment.
func decimate(candles []model.Candle) []model.Candle {
	n := len(candles)
	k := ceilDiv(n, decimateTarget)

	out := make([]model.Candle, 0, n/k+2)
	for i := 0; i < n; i += k {
		out = append(out, candles[i])
	}
	if (n-1)%k != 0 {
		out = append(out, candles[n-1])
	}
	return out
}

// aggregate partitions the sequence into contiguous fixed-size windows and
// emits one OHLCV candle per window: open from the first member, close from
// the last, high/low as the window extremes, volume summed, timestamp from
// the last member.
func aggregate(candles []model.Candle) []model.Candle {
	n := len(candles)
	w := ceilDiv(n, aggregateBuckets)

	out := make([]model.Candle, 0, n/w+1)
	for start := 0; start < n; start += w {
		end := start + w
		if end > n {
			end = n
		}
		window := candles[start:end]

		agg := model.Candle{
			Time:  window[len(window)-1].Time,
			Open:  window[0].Open,
			Close: window[len(window)-1].Close,
			High:  window[0].High,
			Low:   window[0].Low,
		}
		for _, c := range window {
			if c.High > agg.High {
				agg.High = c.High
			}
			if c.Low < agg.Low {
				agg.Low = c.Low
			}
			agg.Volume += c.Volume
		}
		out = append(out, agg)
	}
	return out
}

// sampleLandmarks down-samples very large sequences while guaranteeing that
// both endpoints, every on-stride candle, and every significant close-to-close
// move survive. A candle is also kept whenever more than twice the stride has
// elapsed since the last kept one, so no gap ever exceeds 2x the nominal
// stride.
func sampleLandmarks(candles []model.Candle) []model.Candle {
	n := len(candles)
	stride := ceilDiv(n, landmarkTarget)

	out := make([]model.Candle, 0, n/stride+16)
	out = append(out, candles[0])
	lastKept := 0

	for i := 1; i < n-1; i++ {
		keep := i%stride == 0 || i-lastKept > 2*stride
		if !keep && candles[i-1].Close != 0 {
			move := (candles[i].Close - candles[i-1].Close) / candles[i-1].Close
			if move < 0 {
				move = -move
			}
			keep = move > landmarkMoveThreshold
		}
		if keep {
			out = append(out, candles[i])
			lastKept = i
		}
	}
	out = append(out, candles[n-1])
	return out
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
