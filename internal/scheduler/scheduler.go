package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"closet-backend/internal/jobs"
	"closet-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	_, err := s.cron.AddFunc(cfg.ReportOverdueReturns, s.jobs.ReportOverdueReturns)
	if err != nil {
		logger.Error("Failed to register ReportOverdueReturns job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.ReportStaleQuotations, s.jobs.ReportStaleQuotations)
	if err != nil {
		logger.Error("Failed to register ReportStaleQuotations job", "error", err)
	}

	logger.Info("All cron jobs registered successfully")
}

func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop waits for running jobs to finish before returning.
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}
