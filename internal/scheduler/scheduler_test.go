package scheduler

import (
	"errors"
	"testing"
	"time"

	"BreakoutBoard/internal/model"
	"BreakoutBoard/internal/source"
)

// memStore records what the scheduler persisted.
type memStore struct {
	candles  map[string][]model.Candle
	statuses []model.SourceInfo
}

func newMemStore() *memStore {
	return &memStore{candles: make(map[string][]model.Candle)}
}

func (m *memStore) SaveCandles(src string, candles []model.Candle) error {
	m.candles[src] = candles
	return nil
}

func (m *memStore) Candles(src string) ([]model.Candle, error) {
	return m.candles[src], nil
}

func (m *memStore) SetSourceStatus(info model.SourceInfo) error {
	m.statuses = append(m.statuses, info)
	return nil
}

func (m *memStore) RecordBacktest(*model.BacktestResult) error { return nil }
func (m *memStore) Close() error                               { return nil }

func day(i int) time.Time {
	return time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func TestRefreshNow_CachesValidatedCandles(t *testing.T) {
	reg := source.NewRegistry()
	reg.Register(&source.MockSource{
		SourceName: "mock",
		Data: []model.Candle{
			// Out of order on purpose: the refresh must validate before caching.
			{Time: day(1), Open: 11, High: 12, Low: 10, Close: 11, Volume: 1},
			{Time: day(0), Open: 10, High: 11, Low: 9, Close: 10, Volume: 1},
		},
	}, "Mock")
	st := newMemStore()

	s := NewScheduler(reg, st)
	s.RunRefreshNow()

	cached := st.candles["mock"]
	if len(cached) != 2 {
		t.Fatalf("expected 2 cached candles, got %d", len(cached))
	}
	if !cached[0].Time.Equal(day(0)) {
		t.Error("cached candles not sorted ascending")
	}

	info, ok := reg.Info("mock")
	if !ok || info.Status != "active" {
		t.Errorf("source should be active after refresh, got %+v", info)
	}
	if len(st.statuses) != 1 || st.statuses[0].Status != "active" {
		t.Errorf("status not persisted: %+v", st.statuses)
	}
}

func TestRefreshNow_MarksFailingSource(t *testing.T) {
	reg := source.NewRegistry()
	reg.Register(&source.MockSource{
		SourceName: "broken",
		Err:        errors.New("connection refused"),
	}, "Broken")
	st := newMemStore()

	s := NewScheduler(reg, st)
	s.RunRefreshNow()

	info, _ := reg.Info("broken")
	if info.Status != "error" || info.ErrorMessage == "" {
		t.Errorf("failing source not marked: %+v", info)
	}
	if len(st.statuses) != 1 || st.statuses[0].Status != "error" {
		t.Errorf("error status not persisted: %+v", st.statuses)
	}
}

func TestRegisterAll_BadCronExpr(t *testing.T) {
	s := NewScheduler(source.NewRegistry(), newMemStore())
	if err := s.RegisterAll("not a cron expr"); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}
