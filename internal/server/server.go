// Package server exposes the dashboard HTTP API: chart data, backtests,
// source status and the manual refresh trigger.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"BreakoutBoard/internal/model"
	"BreakoutBoard/internal/series"
	"BreakoutBoard/internal/source"
	"BreakoutBoard/internal/store"
	"BreakoutBoard/internal/stream"
)

// Config wires the server to the rest of the application.
type Config struct {
	Registry *source.Registry
	Store    store.Store
	// Live is the most recent streamed candle; nil when streaming is off.
	Live *stream.Latest
	// LiveSource names the registry source the live candle belongs to.
	LiveSource string
	// Params are the strategy parameters used when a request carries none.
	Params model.Params
	// MaxPoints is the default chart size target.
	MaxPoints int
	// Refresh triggers an asynchronous data refresh of all sources.
	Refresh func()
}

// Server handles the dashboard API.
type Server struct {
	cfg     Config
	httpSrv *http.Server

	mu        sync.Mutex
	backtests map[string]*model.BacktestResult
}

func New(cfg Config) *Server {
	if cfg.MaxPoints <= 0 {
		cfg.MaxPoints = 1000
	}
	if cfg.Params == (model.Params{}) {
		cfg.Params = model.OptimizedParams()
	}
	return &Server{
		cfg:       cfg,
		backtests: make(map[string]*model.BacktestResult),
	}
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /api/data-sources", s.handleDataSources)
	mux.HandleFunc("GET /api/chart-data/{source}", s.handleChartData)
	mux.HandleFunc("GET /api/backtest/{source}", s.handleBacktest)
	mux.HandleFunc("POST /api/backtest/{source}", s.handleBacktest)
	mux.HandleFunc("GET /api/trade-signals/{source}", s.handleTradeSignals)
	mux.HandleFunc("GET /api/performance-metrics/{source}", s.handlePerformanceMetrics)
	mux.HandleFunc("GET /api/equity-curve/{source}", s.handleEquityCurve)
	mux.HandleFunc("GET /api/comparison", s.handleComparison)
	mux.HandleFunc("POST /api/update-data", s.handleUpdateData)
	mux.HandleFunc("GET /api/live-price", s.handleLivePrice)
	return mux
}

// Start blocks serving the API until Shutdown is called or the listener
// fails.
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Printf("[INFO] http server listening on %s", addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// loadCandles returns the validated history for a source, preferring the
// cache and falling back to a direct fetch.
func (s *Server) loadCandles(name string) ([]model.Candle, error) {
	src, ok := s.cfg.Registry.Get(name)
	if !ok {
		return nil, errUnknownSource
	}

	cached, err := s.cfg.Store.Candles(name)
	if err != nil {
		log.Printf("[WARN] read cached candles for %s: %v", name, err)
	}
	if len(cached) > 0 {
		return cached, nil
	}

	raw, err := src.Candles()
	if err != nil {
		s.cfg.Registry.MarkError(name, err)
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	candles := series.Validate(raw)
	if err := s.cfg.Store.SaveCandles(name, candles); err != nil {
		log.Printf("[WARN] cache candles for %s: %v", name, err)
	}
	s.cfg.Registry.MarkUpdated(name, candles)
	return candles, nil
}

// mergeLive appends or replaces the most recent candle with the streamed
// in-progress one when the chart is for the streaming source.
func (s *Server) mergeLive(name string, candles []model.Candle) []model.Candle {
	if s.cfg.Live == nil || name != s.cfg.LiveSource {
		return candles
	}
	live, _, ok := s.cfg.Live.Get()
	if !ok {
		return candles
	}
	if n := len(candles); n > 0 && !candles[n-1].Time.Before(live.Time) {
		if candles[n-1].Time.Equal(live.Time) {
			out := append([]model.Candle(nil), candles...)
			out[n-1] = live
			return out
		}
		return candles
	}
	return append(append([]model.Candle(nil), candles...), live)
}

type apiError struct {
	Message string `json:"error"`
}

var errUnknownSource = fmt.Errorf("unknown data source")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Message: msg})
}
