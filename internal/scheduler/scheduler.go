package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"BreakoutBoard/internal/series"
	"BreakoutBoard/internal/source"
	"BreakoutBoard/internal/store"
)

// Scheduler manages the periodic data refresh task.
type Scheduler struct {
	Cron     *cron.Cron
	Registry *source.Registry
	Store    store.Store
}

// NewScheduler creates a new Scheduler.
func NewScheduler(reg *source.Registry, st store.Store) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Registry: reg,
		Store:    st,
	}
}

// RegisterAll registers the refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (manual trigger from
// the update-data endpoint, or RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running data refresh")
	for _, name := range s.Registry.Names() {
		s.refreshSource(name)
	}
}

// refreshSource re-fetches one source, validates the result and caches it.
// Failures are recorded on the registry so the dashboard can surface them.
func (s *Scheduler) refreshSource(name string) {
	src, ok := s.Registry.Get(name)
	if !ok {
		return
	}

	candles, err := src.Candles()
	if err != nil {
		log.Printf("[ERROR] refresh %s: %v", name, err)
		s.Registry.MarkError(name, err)
		s.persistStatus(name)
		return
	}
	candles = series.Validate(candles)

	if err := s.Store.SaveCandles(name, candles); err != nil {
		log.Printf("[ERROR] cache %s candles: %v", name, err)
		s.Registry.MarkError(name, err)
		s.persistStatus(name)
		return
	}

	s.Registry.MarkUpdated(name, candles)
	s.persistStatus(name)
	log.Printf("[INFO] refreshed %s: %d candles", name, len(candles))
}

func (s *Scheduler) persistStatus(name string) {
	info, ok := s.Registry.Info(name)
	if !ok {
		return
	}
	if err := s.Store.SetSourceStatus(info); err != nil {
		log.Printf("[ERROR] persist %s status: %v", name, err)
	}
}
