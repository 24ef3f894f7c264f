package strategy

import (
	"BreakoutBoard/internal/model"
)

// buildEquityCurve annotates the per-bar equity history with running-peak
// drawdown percentages.
func buildEquityCurve(points []model.EquityPoint) model.EquityCurve {
	curve := model.EquityCurve{
		Points:        points,
		InitialEquity: initialCapital,
		FinalEquity:   initialCapital,
		PeakEquity:    initialCapital,
	}
	if len(points) == 0 {
		return curve
	}

	peak := points[0].Equity
	for i := range points {
		if points[i].Equity > peak {
			peak = points[i].Equity
		}
		dd := 0.0
		if peak > 0 {
			dd = (points[i].Equity - peak) / peak * 100
		}
		points[i].DrawdownPct = dd
		if -dd > curve.MaxDrawdownPct {
			curve.MaxDrawdownPct = -dd
		}
	}
	curve.FinalEquity = points[len(points)-1].Equity
	curve.PeakEquity = peak
	return curve
}

// computeMetrics summarizes a finished backtest run.
func computeMetrics(e *engine, curve model.EquityCurve) model.PerformanceMetrics {
	m := model.PerformanceMetrics{
		InitialEquity:  initialCapital,
		FinalEquity:    e.equity,
		PeakEquity:     curve.PeakEquity,
		NetProfit:      e.equity - initialCapital,
		TotalReturnPct: (e.equity/initialCapital - 1) * 100,
		MaxDrawdownPct: curve.MaxDrawdownPct,
		TotalTrades:    len(e.closed),
	}

	if len(curve.Points) > 0 {
		m.StartDate = curve.Points[0].Time
		m.EndDate = curve.Points[len(curve.Points)-1].Time
		m.TotalDays = int(m.EndDate.Sub(m.StartDate).Hours() / 24)
	}

	var sumPnL float64
	for _, tr := range e.closed {
		switch {
		case tr.pnl > 0:
			m.WinningTrades++
			m.GrossProfit += tr.pnl
		case tr.pnl < 0:
			m.LosingTrades++
			m.GrossLoss += -tr.pnl
		}
		sumPnL += tr.pnl
		if tr.dir == long {
			m.LongProfit += tr.pnl
		} else {
			m.ShortProfit += tr.pnl
		}
	}
	for _, sig := range e.signals {
		switch sig.Action {
		case model.ActionEntryLong:
			m.LongTrades++
		case model.ActionEntryShort:
			m.ShortTrades++
		}
	}

	if n := m.WinningTrades + m.LosingTrades; n > 0 {
		m.WinRatePct = float64(m.WinningTrades) / float64(n) * 100
		m.AverageTrade = sumPnL / float64(n)
	}
	if m.WinningTrades > 0 {
		m.AverageWinner = m.GrossProfit / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AverageLoser = m.GrossLoss / float64(m.LosingTrades)
	}
	switch {
	case m.GrossLoss > 0:
		m.ProfitFactor = m.GrossProfit / m.GrossLoss
	case m.GrossProfit > 0:
		// No losing trades; report the gross profit so JSON stays finite.
		m.ProfitFactor = m.GrossProfit
	}

	// Buy & hold benchmark over the same range the strategy traded.
	if e.firstClose > 0 {
		m.BuyHoldReturnPct = (e.lastClose/e.firstClose - 1) * 100
	}
	return m
}
