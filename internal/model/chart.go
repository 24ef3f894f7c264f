package model

import "time"

// BoundaryPoint holds the breakout boundaries for one candle.
// The boundary series is aligned by index to the full-resolution candle
// sequence; entries for the first lookback candles are nil.
type BoundaryPoint struct {
	Time  time.Time `json:"timestamp"`
	Upper float64   `json:"upper_boundary"`
	Lower float64   `json:"lower_boundary"`
}

// RenderingSettings are the visual parameters the frontend should use for a
// given candle count.
type RenderingSettings struct {
	CandleWidthFactor float64 `json:"candle_width_factor"`
	TickDensity       int     `json:"tick_density"` // target number of axis ticks
}

// ChartData is everything the frontend needs to draw one chart: the reduced
// candle sequence plus the boundary lines computed on full-resolution data.
type ChartData struct {
	Candles      []Candle          `json:"candles"`
	Boundaries   []*BoundaryPoint  `json:"boundaries"`
	Settings     RenderingSettings `json:"settings"`
	Source       string            `json:"source"`
	Timeframe    string            `json:"timeframe"`
	TotalCandles int               `json:"total_candles"` // before resampling
}
