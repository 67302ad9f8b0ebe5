package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Worker is the resident poll loop: it repeats tick() and sleeps
// pollInterval between ticks, processing one job per outer iteration. It
// tolerates transient repository errors by logging and continuing —
// correctness does not depend on this loop being the only caller, since
// the skip-locked claim protocol already makes it safe to run many of
// these (plus external triggers) concurrently.
type Worker struct {
	reaper       *Reaper
	tick         *Tick
	logger       *slog.Logger
	pollInterval time.Duration
}

func NewWorker(reaper *Reaper, tick *Tick, logger *slog.Logger, pollInterval time.Duration) *Worker {
	return &Worker{
		reaper:       reaper,
		tick:         tick,
		logger:       logger.With("component", "worker"),
		pollInterval: pollInterval,
	}
}

func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker started", "poll_interval", w.pollInterval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shut down")
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *Worker) poll(ctx context.Context) {
	if _, err := w.reaper.Sweep(ctx); err != nil {
		w.logger.Error("crash recovery sweep failed", "error", err)
	}

	processed, err := w.tick.Run(ctx)
	if err != nil {
		w.logger.Error("tick failed", "error", err)
		return
	}
	if processed {
		w.logger.Info("tick processed a job")
	}
}
