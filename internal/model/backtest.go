package model

import "time"

// Params holds the breakout strategy parameters.
type Params struct {
	Lookback     int     `json:"lookback_period" yaml:"lookback_period"`
	RangeMult    float64 `json:"range_mult" yaml:"range_mult"`
	StopLossMult float64 `json:"stop_loss_mult" yaml:"stop_loss_mult"`
	ATRPeriod    int     `json:"atr_period" yaml:"atr_period"`
}

// DefaultParams are the published strategy defaults.
func DefaultParams() Params {
	return Params{Lookback: 20, RangeMult: 0.5, StopLossMult: 2.5, ATRPeriod: 14}
}

// OptimizedParams are the parameters found by the offline optimization runs.
func OptimizedParams() Params {
	return Params{Lookback: 25, RangeMult: 0.4, StopLossMult: 2.0, ATRPeriod: 14}
}

// PerformanceMetrics summarizes a backtest run.
type PerformanceMetrics struct {
	TotalReturnPct   float64   `json:"total_return_percent"`
	BuyHoldReturnPct float64   `json:"buy_hold_return_percent"`
	TotalTrades      int       `json:"total_trades"`
	WinningTrades    int       `json:"winning_trades"`
	LosingTrades     int       `json:"losing_trades"`
	WinRatePct       float64   `json:"win_rate_percent"`
	ProfitFactor     float64   `json:"profit_factor"`
	MaxDrawdownPct   float64   `json:"max_drawdown_percent"`
	GrossProfit      float64   `json:"gross_profit"`
	GrossLoss        float64   `json:"gross_loss"`
	NetProfit        float64   `json:"net_profit"`
	AverageTrade     float64   `json:"average_trade"`
	AverageWinner    float64   `json:"average_winner"`
	AverageLoser     float64   `json:"average_loser"`
	InitialEquity    float64   `json:"initial_equity"`
	FinalEquity      float64   `json:"final_equity"`
	PeakEquity       float64   `json:"peak_equity"`
	LongTrades       int       `json:"long_trades"`
	ShortTrades      int       `json:"short_trades"`
	LongProfit       float64   `json:"long_profit"`
	ShortProfit      float64   `json:"short_profit"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	TotalDays        int       `json:"total_days"`
}

// EquityPoint is a single point on the equity curve.
type EquityPoint struct {
	Time        time.Time `json:"date"`
	Equity      float64   `json:"equity"`
	DrawdownPct float64   `json:"drawdown_percent"`
}

// EquityCurve is the per-bar portfolio equity history of a backtest.
type EquityCurve struct {
	Points         []EquityPoint `json:"equity_points"`
	Source         string        `json:"source"`
	InitialEquity  float64       `json:"initial_equity"`
	FinalEquity    float64       `json:"final_equity"`
	PeakEquity     float64       `json:"peak_equity"`
	MaxDrawdownPct float64       `json:"max_drawdown_percent"`
}

// BacktestResult is the complete output of one backtest run.
type BacktestResult struct {
	Source       string             `json:"source"`
	Params       Params             `json:"parameters"`
	Metrics      PerformanceMetrics `json:"performance_metrics"`
	TradeSignals []TradeSignal      `json:"trade_signals"`
	EquityCurve  EquityCurve        `json:"equity_curve"`
	RunAt        time.Time          `json:"run_timestamp"`
}

// SourceComparison ranks all active sources by backtest return.
type SourceComparison struct {
	Sources       []string                      `json:"sources"`
	Metrics       map[string]PerformanceMetrics `json:"metrics"`
	Rankings      map[string]int                `json:"rankings"`
	BestSource    string                        `json:"best_source"`
	WorstSource   string                        `json:"worst_source"`
	AverageReturn float64                       `json:"average_return"`
	ReturnSpread  float64                       `json:"return_spread"`
}
