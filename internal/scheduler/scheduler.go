package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/maretraitesuisse/simulator/internal/calculation"
	"github.com/maretraitesuisse/simulator/internal/storage"
	"github.com/maretraitesuisse/simulator/pkg/dateutil"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the housekeeping jobs of the simulation service.
type Scheduler struct {
	Cron          *cron.Cron
	Recorder      storage.Recorder
	RetentionDays int
	Logger        calculation.Logger
	Ctx           context.Context

	// Now is the clock used to compute the retention cutoff
	Now func() time.Time
}

// NewScheduler creates a new Scheduler. Cron specs take six fields, seconds first.
func NewScheduler(ctx context.Context, rec storage.Recorder, retentionDays int, logger calculation.Logger) *Scheduler {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Recorder:      rec,
		RetentionDays: retentionDays,
		Logger:        logger,
		Ctx:           ctx,
		Now:           time.Now,
	}
}

// RegisterRetention registers the purge of stored simulations older than the retention window.
// A retention of zero days keeps everything and registers nothing.
func (s *Scheduler) RegisterRetention(spec string) error {
	if s.RetentionDays <= 0 {
		s.Logger.Infof("retention disabled, stored simulations are kept")
		return nil
	}
	if _, err := s.Cron.AddFunc(spec, func() { s.PurgeNow() }); err != nil {
		return fmt.Errorf("register retention task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Infof("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Infof("scheduler stopped")
}

// PurgeNow deletes expired simulations immediately and returns how many were removed
func (s *Scheduler) PurgeNow() int64 {
	cutoff := dateutil.RetentionCutoff(s.Now(), s.RetentionDays)
	n, err := s.Recorder.PurgeBefore(s.Ctx, cutoff)
	if err != nil {
		s.Logger.Errorf("retention purge: %v", err)
		return 0
	}
	s.Logger.Infof("retention purge removed %d simulation(s) created before %s", n, cutoff.Format(dateutil.DateLayout))
	return n
}
