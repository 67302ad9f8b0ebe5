package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/job-scheduler/internal/domain"
	"github.com/ErlanBelekov/job-scheduler/internal/metrics"
	"github.com/ErlanBelekov/job-scheduler/internal/repository"
)

// Tick is one claim-and-execute pass: claim a single ready job under
// FOR UPDATE SKIP LOCKED, run its action runner, and write back the
// outcome — all inside the one transaction the claim opened.
type Tick struct {
	jobs   repository.JobRepository
	runner ActionRunner
	logger *slog.Logger
}

func NewTick(jobs repository.JobRepository, runner ActionRunner, logger *slog.Logger) *Tick {
	return &Tick{jobs: jobs, runner: runner, logger: logger.With("component", "tick")}
}

// Run attempts to claim and execute one job. It returns false (with a nil
// error) when no job was ready to claim.
func (t *Tick) Run(ctx context.Context) (bool, error) {
	start := time.Now()
	defer func() { metrics.TickDuration.Observe(time.Since(start).Seconds()) }()

	job, tx, err := t.jobs.BeginClaim(ctx)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, tx.Rollback(ctx)
	}
	metrics.JobsClaimedTotal.Inc()

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	attempt := job.RetryCount + 1
	exec, err := tx.InsertExecution(ctx, &domain.JobExecution{
		JobID:         job.ID,
		AttemptNumber: attempt,
		StartedAt:     start,
		Status:        domain.ExecutionFailed,
	})
	if err != nil {
		return false, err
	}

	if err := tx.SetRunning(ctx, job.ID); err != nil {
		return false, err
	}

	t.logger.InfoContext(ctx, "executing job", "job_id", job.ID, "attempt", attempt)
	ok, message := t.runner.Run(ctx, job)

	finishedAt := time.Now()
	outcomeLabel := "failure"
	execStatus := domain.ExecutionFailed
	var errMsg, result *string
	if ok {
		outcomeLabel = "success"
		execStatus = domain.ExecutionSuccess
		result = &message
	} else {
		errMsg = &message
	}
	metrics.JobExecutionDuration.WithLabelValues(outcomeLabel).Observe(finishedAt.Sub(start).Seconds())

	if err := tx.FinishExecution(ctx, exec.ID, execStatus, errMsg, result, finishedAt); err != nil {
		return false, err
	}

	// An operator may have cancelled the job while it was RUNNING. The
	// worker yields to that and only records the execution.
	currentStatus, err := tx.CurrentStatus(ctx, job.ID)
	if err != nil {
		return false, err
	}

	if !currentStatus.Terminal() {
		if err := t.applyOutcome(ctx, tx, job, ok, attempt); err != nil {
			return false, err
		}
	} else {
		t.logger.InfoContext(ctx, "job was cancelled while running, yielding to operator",
			"job_id", job.ID, "status", currentStatus)
	}

	metrics.JobsCompletedTotal.WithLabelValues(outcomeLabel).Inc()

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	committed = true
	return true, nil
}

func (t *Tick) applyOutcome(ctx context.Context, tx repository.ClaimTx, job *domain.Job, ok bool, attempt int) error {
	if ok {
		if job.ScheduleType == domain.ScheduleInterval && job.IntervalSeconds != nil && *job.IntervalSeconds > 0 {
			nextRun := time.Now().Add(time.Duration(*job.IntervalSeconds) * time.Second)
			return tx.Reschedule(ctx, job.ID, &nextRun, 0)
		}
		return tx.Complete(ctx, job.ID)
	}

	if attempt >= job.MaxRetries {
		return tx.Fail(ctx, job.ID)
	}
	// Retries reuse the existing run_at — no backoff in this design.
	return tx.Reschedule(ctx, job.ID, job.RunAt, attempt)
}

// RunBatch loops Run until either no job is claimable or maxJobs attempts
// have been made. It returns the number of jobs actually processed.
func RunBatch(ctx context.Context, t *Tick, maxJobs int) (int, error) {
	processed := 0
	for i := 0; i < maxJobs; i++ {
		ok, err := t.Run(ctx)
		if err != nil {
			return processed, err
		}
		if !ok {
			break
		}
		processed++
	}
	return processed, nil
}
