package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/job-scheduler/internal/metrics"
	"github.com/ErlanBelekov/job-scheduler/internal/repository"
)

// Reaper implements crash recovery: any job left RUNNING past
// staleRunningThreshold lost its worker (the row lock was released at
// rollback, but the RUNNING write already committed) and is handed back to
// the eligible pool.
type Reaper struct {
	jobs      repository.JobRepository
	logger    *slog.Logger
	threshold time.Duration
}

func NewReaper(jobs repository.JobRepository, logger *slog.Logger, threshold time.Duration) *Reaper {
	return &Reaper{jobs: jobs, logger: logger.With("component", "reaper"), threshold: threshold}
}

// Sweep runs one crash-recovery pass in its own transaction (the repository
// commits internally) and returns the number of jobs reset.
func (r *Reaper) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { metrics.ReaperCycleDuration.Observe(time.Since(start).Seconds()) }()

	cutoff := time.Now().Add(-r.threshold)
	n, err := r.jobs.ResetStaleRunning(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.ReaperRescuedTotal.Add(float64(n))
		r.logger.InfoContext(ctx, "crash recovery reset stale running jobs", "count", n)
	}
	return n, nil
}
