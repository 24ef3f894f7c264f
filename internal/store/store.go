package store

import "BreakoutBoard/internal/model"

// Store caches candle history and records backtest runs for later analysis.
type Store interface {
	// SaveCandles upserts the candle history for a source.
	SaveCandles(source string, candles []model.Candle) error
	// Candles returns the cached history for a source, oldest first.
	// An empty result means nothing is cached yet.
	Candles(source string) ([]model.Candle, error)
	// SetSourceStatus persists the latest refresh status of a source.
	SetSourceStatus(info model.SourceInfo) error
	// RecordBacktest appends a finished backtest run.
	RecordBacktest(result *model.BacktestResult) error
	Close() error
}

// NoopStore is used when no database path is configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveCandles(string, []model.Candle) error   { return nil }
func (n *NoopStore) Candles(string) ([]model.Candle, error)     { return nil, nil }
func (n *NoopStore) SetSourceStatus(model.SourceInfo) error     { return nil }
func (n *NoopStore) RecordBacktest(*model.BacktestResult) error { return nil }
func (n *NoopStore) Close() error                               { return nil }
