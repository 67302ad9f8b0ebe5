package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/job-scheduler/internal/domain"
)

// UseCase and Worker Tick depend on these interfaces, not the concrete
// postgres implementation: swap the store later, or pass a fake in tests.
type ListFilter struct {
	Status       *domain.Status
	ScheduleType *domain.ScheduleType
}

type ListJobsInput struct {
	Filter ListFilter
	Limit  int
	Offset int
}

// ClaimTx scopes the single transaction a claimed job is mutated and
// committed within: the caller mutates and commits within the same
// transaction, and the row lock is released at commit/rollback. Every
// method here runs against that one transaction.
type ClaimTx interface {
	// SetRunning transitions the claimed job SCHEDULED -> RUNNING.
	SetRunning(ctx context.Context, jobID string) error
	// Reschedule moves the job back to SCHEDULED with the given run_at and
	// retry_count — used for both a successful interval reschedule
	// (retry_count reset to 0) and a failed attempt with retries remaining
	// (the caller passes the job's existing run_at; retries never get their
	// own backoff). run_at is written as given, so a nil runAt stores NULL.
	Reschedule(ctx context.Context, jobID string, runAt *time.Time, retryCount int) error
	Complete(ctx context.Context, jobID string) error
	Fail(ctx context.Context, jobID string) error
	// CurrentStatus re-reads the job's status inside the transaction so the
	// terminal-state guard can detect an operator's concurrent CANCELLED
	// write before committing a worker outcome over it.
	CurrentStatus(ctx context.Context, jobID string) (domain.Status, error)
	InsertExecution(ctx context.Context, exec *domain.JobExecution) (*domain.JobExecution, error)
	FinishExecution(ctx context.Context, executionID string, status domain.ExecutionStatus, errMsg, result *string, finishedAt time.Time) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type JobRepository interface {
	InsertJob(ctx context.Context, job *domain.Job) (*domain.Job, error)
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	ListJobs(ctx context.Context, input ListJobsInput) ([]*domain.Job, int, error)
	UpdateJobStatus(ctx context.Context, id string, newStatus domain.Status) (*domain.Job, error)
	DeleteJob(ctx context.Context, id string) (bool, error)

	// ResetStaleRunning is the crash-recovery sweep: every Job stuck in
	// RUNNING with updated_at older than threshold goes back to SCHEDULED.
	ResetStaleRunning(ctx context.Context, threshold time.Time) (int, error)

	// BeginClaim opens a transaction, attempts to claim one ready job with
	// FOR UPDATE SKIP LOCKED (nulls-first on run_at), and returns it (nil if
	// none are ready) plus a ClaimTx scoped to that same transaction. The
	// caller must call Commit or Rollback on the ClaimTx exactly once.
	BeginClaim(ctx context.Context) (*domain.Job, ClaimTx, error)
}

type ExecutionRepository interface {
	ListByJobID(ctx context.Context, jobID string) ([]*domain.JobExecution, error)
}
