package scheduler

import (
	"fmt"
	"time"

	"toolrental-backend/internal/jobs"
	"toolrental-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the rental maintenance jobs on their configured cron specs.
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler registers every job of jobRunner. It fails when a configured
// schedule cannot be parsed.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// Specs carry a seconds field and are evaluated in UTC. A run that is
	// still going when its next tick fires is skipped.
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	s := &Scheduler{cron: c, jobs: jobRunner}
	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler
	entries := []struct {
		name string
		spec string
		run  func()
	}{
		{"ExpireStaleReservations", cfg.ExpireStaleReservations, s.jobs.ExpireStaleReservations},
		{"ReportOverdueReturns", cfg.ReportOverdueReturns, s.jobs.ReportOverdueReturns},
	}

	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.spec, e.run); err != nil {
			return fmt.Errorf("register %s job: %w", e.name, err)
		}
		logger.Debug("Cron job registered", "job", e.name, "spec", e.spec)
	}
	logger.Info("Cron jobs registered", "jobs", len(s.cron.Entries()))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Cron scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning reports whether any job is registered.
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
