package source

import (
	"sync"
	"time"

	"BreakoutBoard/internal/model"
)

// Registry tracks the configured market-data sources and their last known
// refresh status, which the API reports via /api/data-sources.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*entry
}

type entry struct {
	src     Source
	display string
	info    model.SourceInfo
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds a source under its own name. Registration order is
// preserved in listings.
func (r *Registry) Register(src Source, displayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := src.Name()
	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = &entry{
		src:     src,
		display: displayName,
		info: model.SourceInfo{
			Name:        name,
			DisplayName: displayName,
			Status:      "inactive",
		},
	}
}

// Get returns the source registered under name.
func (r *Registry) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.src, true
}

// Names returns the registered source names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Infos returns the current status of every registered source.
func (r *Registry) Infos() []model.SourceInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.SourceInfo, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].info)
	}
	return out
}

// Info returns the current status of one source.
func (r *Registry) Info(name string) (model.SourceInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return model.SourceInfo{}, false
	}
	return e.info, true
}

// MarkUpdated records a successful load of the given validated candles.
func (r *Registry) MarkUpdated(name string, candles []model.Candle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return
	}
	now := time.Now()
	e.info.Status = "active"
	e.info.LastUpdated = &now
	e.info.TotalCandles = len(candles)
	e.info.ErrorMessage = ""
	if len(candles) > 0 {
		start, end := candles[0].Time, candles[len(candles)-1].Time
		e.info.RangeStart = &start
		e.info.RangeEnd = &end
	}
}

// MarkError records a failed refresh; the source stays listed so the
// dashboard can surface the failure.
func (r *Registry) MarkError(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return
	}
	e.info.Status = "error"
	e.info.ErrorMessage = err.Error()
}
