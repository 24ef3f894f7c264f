package source

import "BreakoutBoard/internal/model"

// Source provides historical candles for one named market-data source.
type Source interface {
	// Candles returns the full available daily history, oldest first.
	// The result is raw: callers validate before use.
	Candles() ([]model.Candle, error)
	// LatestPrice returns the most recent close.
	LatestPrice() (float64, error)
	Name() string
}

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	SourceName string
	Data       []model.Candle
	Price      float64
	Err        error
}

func (m *MockSource) Name() string {
	if m.SourceName == "" {
		return "mock"
	}
	return m.SourceName
}

func (m *MockSource) Candles() ([]model.Candle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Data, nil
}

func (m *MockSource) LatestPrice() (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	if m.Price != 0 {
		return m.Price, nil
	}
	if len(m.Data) > 0 {
		return m.Data[len(m.Data)-1].Close, nil
	}
	return 0, nil
}
