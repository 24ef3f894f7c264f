package model

import "time"

// SignalAction indicates what a trade signal did.
type SignalAction string

const (
	ActionEntryLong  SignalAction = "ENTRY_LONG"
	ActionEntryShort SignalAction = "ENTRY_SHORT"
	ActionClose      SignalAction = "CLOSE"
	ActionStopLoss   SignalAction = "STOP_LOSS"
)

// TradeSignal is a single trade execution emitted by the backtest engine,
// used by the frontend as a chart annotation.
type TradeSignal struct {
	Time    time.Time    `json:"timestamp"`
	Action  SignalAction `json:"action"`
	Price   float64      `json:"price"`
	Size    float64      `json:"size"`
	PnL     *float64     `json:"pnl,omitempty"` // nil for entries
	Equity  float64      `json:"equity"`
	Comment string       `json:"comment,omitempty"`
}
