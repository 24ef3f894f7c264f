package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"BreakoutBoard/internal/model"
	"BreakoutBoard/internal/series"
	"BreakoutBoard/internal/strategy"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDataSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Registry.Infos())
}

func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("source")

	maxPoints := s.cfg.MaxPoints
	if v := r.URL.Query().Get("max_points"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "max_points must be a positive integer")
			return
		}
		maxPoints = n
	}
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	candles, err := s.loadCandles(name)
	if err != nil {
		s.writeLoadError(w, name, err)
		return
	}
	candles = s.mergeLive(name, candles)
	if days > 0 && len(candles) > 0 {
		cutoff := candles[len(candles)-1].Time.AddDate(0, 0, -days)
		for i, c := range candles {
			if c.Time.After(cutoff) {
				candles = candles[i:]
				break
			}
		}
	}

	// Boundaries run on the full-resolution series so breakout levels stay
	// exact no matter how far the chart is reduced.
	boundaries, err := series.ComputeBoundaries(candles, s.cfg.Params.Lookback, s.cfg.Params.RangeMult)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	reduced := series.Resample(candles, maxPoints)

	writeJSON(w, http.StatusOK, model.ChartData{
		Candles:      reduced,
		Boundaries:   boundaries,
		Settings:     series.SelectSettings(len(reduced)),
		Source:       name,
		Timeframe:    "1d",
		TotalCandles: len(candles),
	})
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("source")

	params := s.cfg.Params
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeError(w, http.StatusBadRequest, "invalid parameters: "+err.Error())
			return
		}
		if params.Lookback <= 0 || params.ATRPeriod <= 0 || params.RangeMult < 0 {
			writeError(w, http.StatusBadRequest, "invalid parameters: lookback_period and atr_period must be positive, range_mult non-negative")
			return
		}
	}

	result, err := s.runBacktest(name, params)
	if err != nil {
		s.writeLoadError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTradeSignals(w http.ResponseWriter, r *http.Request) {
	result, err := s.runBacktest(r.PathValue("source"), s.cfg.Params)
	if err != nil {
		s.writeLoadError(w, r.PathValue("source"), err)
		return
	}
	writeJSON(w, http.StatusOK, result.TradeSignals)
}

func (s *Server) handlePerformanceMetrics(w http.ResponseWriter, r *http.Request) {
	result, err := s.runBacktest(r.PathValue("source"), s.cfg.Params)
	if err != nil {
		s.writeLoadError(w, r.PathValue("source"), err)
		return
	}
	writeJSON(w, http.StatusOK, result.Metrics)
}

func (s *Server) handleEquityCurve(w http.ResponseWriter, r *http.Request) {
	result, err := s.runBacktest(r.PathValue("source"), s.cfg.Params)
	if err != nil {
		s.writeLoadError(w, r.PathValue("source"), err)
		return
	}
	writeJSON(w, http.StatusOK, result.EquityCurve)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	cmp := model.SourceComparison{
		Metrics:  make(map[string]model.PerformanceMetrics),
		Rankings: make(map[string]int),
	}

	for _, name := range s.cfg.Registry.Names() {
		result, err := s.runBacktest(name, s.cfg.Params)
		if err != nil {
			log.Printf("[WARN] comparison skipping %s: %v", name, err)
			continue
		}
		cmp.Sources = append(cmp.Sources, name)
		cmp.Metrics[name] = result.Metrics
	}
	if len(cmp.Sources) == 0 {
		writeError(w, http.StatusServiceUnavailable, "no sources available for comparison")
		return
	}

	var sum float64
	best, worst := cmp.Sources[0], cmp.Sources[0]
	for _, name := range cmp.Sources {
		ret := cmp.Metrics[name].TotalReturnPct
		sum += ret
		if ret > cmp.Metrics[best].TotalReturnPct {
			best = name
		}
		if ret < cmp.Metrics[worst].TotalReturnPct {
			worst = name
		}
	}
	for _, name := range cmp.Sources {
		rank := 1
		for _, other := range cmp.Sources {
			if cmp.Metrics[other].TotalReturnPct > cmp.Metrics[name].TotalReturnPct {
				rank++
			}
		}
		cmp.Rankings[name] = rank
	}
	cmp.BestSource = best
	cmp.WorstSource = worst
	cmp.AverageReturn = sum / float64(len(cmp.Sources))
	cmp.ReturnSpread = cmp.Metrics[best].TotalReturnPct - cmp.Metrics[worst].TotalReturnPct

	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) handleUpdateData(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Refresh == nil {
		writeError(w, http.StatusServiceUnavailable, "refresh is not configured")
		return
	}
	go func() {
		s.cfg.Refresh()
		// Invalidate only after the refresh has finished, so a backtest
		// racing the refresh cannot re-cache pre-refresh results.
		s.mu.Lock()
		s.backtests = make(map[string]*model.BacktestResult)
		s.mu.Unlock()
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "data refresh started",
		"status":  "processing",
	})
}

func (s *Server) handleLivePrice(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Live == nil {
		writeError(w, http.StatusNotFound, "live streaming is disabled")
		return
	}
	candle, updatedAt, ok := s.cfg.Live.Get()
	if !ok {
		writeError(w, http.StatusNotFound, "no live data received yet")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source":     s.cfg.LiveSource,
		"price":      candle.Close,
		"candle":     candle,
		"updated_at": updatedAt,
	})
}

// runBacktest runs or reuses a backtest for a source with the given
// parameters. Results are cached per source and parameter set; the cache
// is cleared when a manual data refresh is triggered.
func (s *Server) runBacktest(name string, params model.Params) (*model.BacktestResult, error) {
	key := fmt.Sprintf("%s|%d|%g|%g|%d",
		name, params.Lookback, params.RangeMult, params.StopLossMult, params.ATRPeriod)

	s.mu.Lock()
	cached, ok := s.backtests[key]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	candles, err := s.loadCandles(name)
	if err != nil {
		return nil, err
	}
	candles = s.mergeLive(name, candles)

	result, err := strategy.Backtest(candles, params)
	if err != nil {
		return nil, err
	}
	result.Source = name
	result.EquityCurve.Source = name
	result.RunAt = time.Now()

	if err := s.cfg.Store.RecordBacktest(result); err != nil {
		log.Printf("[WARN] record backtest for %s: %v", name, err)
	}

	s.mu.Lock()
	s.backtests[key] = result
	s.mu.Unlock()
	return result, nil
}

func (s *Server) writeLoadError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, errUnknownSource) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown data source %q", name))
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
