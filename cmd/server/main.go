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
	"github.com/ErlanBelekov/job-scheduler/internal/health"
	"github.com/ErlanBelekov/job-scheduler/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/job-scheduler/internal/log"
	"github.com/ErlanBelekov/job-scheduler/internal/metrics"
	"github.com/ErlanBelekov/job-scheduler/internal/scheduler"
	httptransport "github.com/ErlanBelekov/job-scheduler/internal/transport/http"
	"github.com/ErlanBelekov/job-scheduler/internal/transport/http/handler"
	"github.com/ErlanBelekov/job-scheduler/internal/usecase"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	jobRepo := postgres.NewJobRepository(pool)
	executionRepo := postgres.NewExecutionRepository(pool)
	jobUsecase := usecase.NewJobUsecase(jobRepo, executionRepo)
	jobHandler := handler.NewJobHandler(jobUsecase, logger)

	runner := scheduler.NewDispatchRunner(scheduler.ActionConfig{
		MinSleep:           time.Duration(cfg.ExecutionMinSleepMS) * time.Millisecond,
		MaxSleep:           time.Duration(cfg.ExecutionMaxSleepMS) * time.Millisecond,
		FailureProbability: cfg.FailureProbability,
		QuoteEndpoint:      cfg.QuoteEndpoint,
	}, logger)
	tick := scheduler.NewTick(jobRepo, runner, logger)
	reaper := scheduler.NewReaper(jobRepo, logger, time.Duration(cfg.StaleRunningMinutes)*time.Minute)
	trigger := scheduler.NewTrigger(reaper, tick, logger)
	cronHandler := handler.NewCronHandler(trigger, cfg.CronMaxJobs, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)
	healthHandler := handler.NewHealthHandler(checker)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, jobHandler, cronHandler, healthHandler, cfg.CronSecret),
	}

	metricsSrv := metrics.NewServer(":" + cfg.MetricsPort)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
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
