package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/job-scheduler/config"
	"github.com/ErlanBelekov/job-scheduler/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/job-scheduler/internal/log"
	"github.com/ErlanBelekov/job-scheduler/internal/metrics"
	"github.com/ErlanBelekov/job-scheduler/internal/scheduler"
	"github.com/lmittmann/tint"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	metrics.Register()

	jobRepo := postgres.NewJobRepository(pool)

	runner := scheduler.NewDispatchRunner(scheduler.ActionConfig{
		MinSleep:           time.Duration(cfg.ExecutionMinSleepMS) * time.Millisecond,
		MaxSleep:           time.Duration(cfg.ExecutionMaxSleepMS) * time.Millisecond,
		FailureProbability: cfg.FailureProbability,
		QuoteEndpoint:      cfg.QuoteEndpoint,
	}, logger)

	// All workers share one Reaper; each worker runs a crash-recovery sweep
	// through it at the start of every poll.
	reaper := scheduler.NewReaper(jobRepo, logger, time.Duration(cfg.StaleRunningMinutes)*time.Minute)

	pollInterval := time.Duration(cfg.PollIntervalSeconds) * time.Second
	for i := 0; i < cfg.WorkerCount; i++ {
		tick := scheduler.NewTick(jobRepo, runner, logger)
		worker := scheduler.NewWorker(reaper, tick, logger, pollInterval)
		go worker.Start(ctx)
	}
	logger.Info("workers started", "count", cfg.WorkerCount, "poll_interval", pollInterval)

	metricsSrv := metrics.NewServer(":" + cfg.MetricsPort)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("scheduler shut down")
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
