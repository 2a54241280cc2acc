package jobs

import (
	"time"

	"closet-backend/internal/config"
	"closet-backend/internal/logger"
	"closet-backend/internal/repository"
	"closet-backend/internal/service"
)

// JobRunner coordinates the scheduled report jobs.
type JobRunner struct {
	repos  repository.Repositories
	email  service.EmailService
	config *config.Config
	now    func() time.Time
}

func NewJobRunner(repos repository.Repositories, email service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		repos:  repos,
		email:  email,
		config: cfg,
		now:    time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery so one bad job
// cannot take down the scheduler.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs every nightly job, used by the standalone runner.
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ReportOverdueReturns()
	jr.ReportStaleQuotations()
}
