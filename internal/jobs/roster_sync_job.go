package jobs

import (
	"context"
	"time"

	"github.com/veltra-services/fieldservice-api/internal/domain"
	"go.uber.org/zap"
)

// RosterSyncJobName is the name of the HR roster sync job
const RosterSyncJobName = "roster_sync"

// RosterSyncer defines the interface for syncing technicians from the HR
// directory. It lets the job call the service without importing the service
// package directly.
type RosterSyncer interface {
	Sync(ctx context.Context) (*domain.RosterSyncResult, error)
}

// RosterSyncJob pulls the technician roster from the HR directory on a
// schedule so new hires show up without anyone touching the API.
type RosterSyncJob struct {
	syncer  RosterSyncer
	logger  *zap.Logger
	timeout time.Duration
}

// NewRosterSyncJob creates a new roster sync job.
// The timeout controls how long one sync pass is allowed to run.
func NewRosterSyncJob(syncer RosterSyncer, logger *zap.Logger, timeout time.Duration) *RosterSyncJob {
	return &RosterSyncJob{
		syncer:  syncer,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes one roster sync pass. This is called by the scheduler
// according to the cron expression, and by the change-notification
// debouncer when a burst of remote changes settles.
func (j *RosterSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting roster sync job")

	result, err := j.syncer.Sync(ctx)
	if err != nil {
		j.logger.Error("roster sync job failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("roster sync job completed",
		zap.Int("seen", result.Seen),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", time.Since(start)))
}

// RegisterRosterSyncJob registers the roster sync job with the scheduler.
// If runOnStartup is true it also runs one pass immediately in a background
// goroutine so startup is not blocked on the directory.
func RegisterRosterSyncJob(scheduler *Scheduler, syncer RosterSyncer, logger *zap.Logger, cronExpr string, timeout time.Duration, runOnStartup bool) error {
	job := NewRosterSyncJob(syncer, logger, timeout)

	if runOnStartup {
		go job.Run()
	}

	return scheduler.AddJob(RosterSyncJobName, cronExpr, job.Run)
}
