package model

import "time"

// Candle represents a single OHLCV candlestick bar.
type Candle struct {
	Time   time.Time `json:"timestamp"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// SourceInfo describes a configured market-data source and its current state.
type SourceInfo struct {
	Name         string     `json:"name"`
	DisplayName  string     `json:"display_name"`
	Status       string     `json:"status"` // "active", "inactive", "error"
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
	TotalCandles int        `json:"total_candles"`
	RangeStart   *time.Time `json:"range_start,omitempty"`
	RangeEnd     *time.Time `json:"range_end,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}
