// Package strategy implements the Adaptive Volatility Breakout backtest:
// breakout entries against the rolling range boundaries, ATR stop losses,
// and position reversal on opposite signals.
package strategy

import (
	"fmt"
	"time"

	"BreakoutBoard/internal/calculator"
	"BreakoutBoard/internal/model"
	"BreakoutBoard/internal/series"
)

const (
	initialCapital = 100000
	commissionPct  = 0.1 // percent per side
	entryEquityPct = 99  // percent of equity committed per entry
)

type direction int

const (
	long direction = iota + 1
	short
)

// closedTrade is the engine's internal record of a completed round trip,
// used for the long/short performance split.
type closedTrade struct {
	dir direction
	pnl float64
}

type engine struct {
	params model.Params

	equity   float64
	size     float64 // positive long, negative short
	avgPrice float64

	signals []model.TradeSignal
	closed  []closedTrade
	daily   []model.EquityPoint

	// First and last evaluated closes, for the buy & hold benchmark.
	firstClose float64
	lastClose  float64
}

// Backtest runs the breakout strategy over a validated full-resolution
// candle sequence and returns the trade signals, performance metrics and
// equity curve. The candle slice must already be validated; boundaries are
// always computed here on the full-resolution input.
func Backtest(candles []model.Candle, params model.Params) (*model.BacktestResult, error) {
	boundaries, err := series.ComputeBoundaries(candles, params.Lookback, params.RangeMult)
	if err != nil {
		return nil, fmt.Errorf("compute boundaries: %w", err)
	}
	atr, err := calculator.ATR(candles, params.ATRPeriod)
	if err != nil {
		return nil, fmt.Errorf("compute atr: %w", err)
	}

	e := &engine{params: params, equity: initialCapital}

	for i, bar := range candles {
		b := boundaries[i]
		if b == nil {
			continue // warmup, no boundary yet
		}
		if e.firstClose == 0 {
			e.firstClose = bar.Close
		}
		e.lastClose = bar.Close

		// Stop losses are checked before signals, matching the strategy's
		// published execution order.
		stopHit := false
		if e.size > 0 {
			stop := e.avgPrice - atr[i]*params.StopLossMult
			if bar.Low <= stop {
				e.close(bar.Time, stop, model.ActionStopLoss, "long stop loss")
				stopHit = true
			}
		} else if e.size < 0 {
			stop := e.avgPrice + atr[i]*params.StopLossMult
			if bar.High >= stop {
				e.close(bar.Time, stop, model.ActionStopLoss, "short stop loss")
				stopHit = true
			}
		}

		if !stopHit {
			switch {
			case bar.High > b.Upper:
				if e.size < 0 {
					e.close(bar.Time, bar.Close, model.ActionClose, "reverse to long")
				}
				if e.size == 0 {
					e.enter(bar.Time, bar.Close, long)
				}
			case bar.Low < b.Lower:
				if e.size > 0 {
					e.close(bar.Time, bar.Close, model.ActionClose, "reverse to short")
				}
				if e.size == 0 {
					e.enter(bar.Time, bar.Close, short)
				}
			}
		}

		e.daily = append(e.daily, model.EquityPoint{
			Time:   bar.Time,
			Equity: e.equity + e.unrealized(bar.Close),
		})
	}

	// Flatten any open position at the end of the data.
	if e.size != 0 && len(candles) > 0 {
		last := candles[len(candles)-1]
		e.close(last.Time, last.Close, model.ActionClose, "end of data")
	}

	curve := buildEquityCurve(e.daily)
	metrics := computeMetrics(e, curve)

	return &model.BacktestResult{
		Params:       params,
		Metrics:      metrics,
		TradeSignals: e.signals,
		EquityCurve:  curve,
		RunAt:        time.Now(),
	}, nil
}

func (e *engine) unrealized(price float64) float64 {
	switch {
	case e.size > 0:
		return (price - e.avgPrice) * e.size
	case e.size < 0:
		return (e.avgPrice - price) * -e.size
	default:
		return 0
	}
}

func (e *engine) enter(ts time.Time, price float64, dir direction) {
	if price <= 0 {
		return
	}
	qty := e.equity * (entryEquityPct / 100.0) / price
	commission := qty * price * (commissionPct / 100.0)
	e.equity -= commission

	action := model.ActionEntryLong
	e.size = qty
	if dir == short {
		action = model.ActionEntryShort
		e.size = -qty
	}
	e.avgPrice = price

	e.signals = append(e.signals, model.TradeSignal{
		Time:   ts,
		Action: action,
		Price:  price,
		Size:   qty,
		Equity: e.equity,
	})
}

func (e *engine) close(ts time.Time, price float64, action model.SignalAction, comment string) {
	if e.size == 0 {
		return
	}
	dir := long
	if e.size < 0 {
		dir = short
	}
	pnl := e.unrealized(price)

	qty := e.size
	if qty < 0 {
		qty = -qty
	}
	commission := qty * price * (commissionPct / 100.0)
	e.equity += pnl - commission

	e.signals = append(e.signals, model.TradeSignal{
		Time:    ts,
		Action:  action,
		Price:   price,
		Size:    qty,
		PnL:     &pnl,
		Equity:  e.equity,
		Comment: comment,
	})
	e.closed = append(e.closed, closedTrade{dir: dir, pnl: pnl})

	e.size = 0
	e.avgPrice = 0
}
