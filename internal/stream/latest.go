package stream

import (
	"sync"
	"time"

	"BreakoutBoard/internal/model"
)

// Latest holds the most recent in-progress candle delivered by a stream,
// for the live-price endpoint and unrealized-P&L display.
type Latest struct {
	mu        sync.RWMutex
	candle    model.Candle
	updatedAt time.Time
	ok        bool
}

func (l *Latest) Update(c model.Candle) {
	l.mu.Lock()
	l.candle = c
	l.updatedAt = time.Now()
	l.ok = true
	l.mu.Unlock()
}

// Get returns the latest candle and when it arrived; ok is false until the
// first update.
func (l *Latest) Get() (model.Candle, time.Time, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.candle, l.updatedAt, l.ok
}
