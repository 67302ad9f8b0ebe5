package scheduler

import (
	"context"
	"log/slog"
)

// Trigger is a one-shot external trigger: an external scheduler (cron, a
// platform's scheduled-invocation feature) calls RunPending once per
// invocation instead of a resident Worker running its own ticker loop. It
// performs crash recovery once, then claims and executes up to maxJobs
// jobs, reusing the same Reaper and Tick the resident Worker uses.
type Trigger struct {
	reaper *Reaper
	tick   *Tick
	logger *slog.Logger
}

func NewTrigger(reaper *Reaper, tick *Tick, logger *slog.Logger) *Trigger {
	return &Trigger{reaper: reaper, tick: tick, logger: logger.With("component", "trigger")}
}

// RunPending performs one crash-recovery sweep followed by up to maxJobs
// claim-and-execute ticks, stopping early once no job is left to claim. It
// returns the number of stale jobs reset and the number of jobs processed.
func (tr *Trigger) RunPending(ctx context.Context, maxJobs int) (staleReset int, processed int, err error) {
	staleReset, err = tr.reaper.Sweep(ctx)
	if err != nil {
		return 0, 0, err
	}

	processed, err = RunBatch(ctx, tr.tick, maxJobs)
	if err != nil {
		return staleReset, processed, err
	}

	tr.logger.InfoContext(ctx, "external trigger run complete",
		"stale_reset", staleReset, "processed", processed, "max_jobs", maxJobs)
	return staleReset, processed, nil
}
