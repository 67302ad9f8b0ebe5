package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ErlanBelekov/job-scheduler/internal/domain"
	"github.com/ErlanBelekov/job-scheduler/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) InsertJob(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	query := `
		INSERT INTO jobs (
			name, payload, schedule_type, run_at, interval_seconds,
			max_retries, status, retry_count, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 1)
		RETURNING id, name, payload, schedule_type, run_at, interval_seconds,
		          max_retries, status, retry_count, created_at, updated_at, version`

	row := r.pool.QueryRow(ctx, query,
		job.Name,
		job.Payload,
		job.ScheduleType,
		job.RunAt,
		job.IntervalSeconds,
		job.MaxRetries,
		domain.StatusScheduled,
	)
	return scanJob(row)
}

func (r *JobRepository) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	query := `
		SELECT id, name, payload, schedule_type, run_at, interval_seconds,
		       max_retries, status, retry_count, created_at, updated_at, version
		FROM jobs
		WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	return scanJob(row)
}

func (r *JobRepository) ListJobs(ctx context.Context, input repository.ListJobsInput) ([]*domain.Job, int, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}
	if limit > domain.MaxListLimit {
		limit = domain.MaxListLimit
	}

	var args []any
	var where []string

	if input.Filter.Status != nil {
		args = append(args, *input.Filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if input.Filter.ScheduleType != nil {
		args = append(args, *input.Filter.ScheduleType)
		where = append(where, fmt.Sprintf("schedule_type = $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM jobs %s`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	args = append(args, limit, input.Offset)
	query := fmt.Sprintf(`
		SELECT id, name, payload, schedule_type, run_at, interval_seconds,
		       max_retries, status, retry_count, created_at, updated_at, version
		FROM jobs
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, j)
	}
	return jobs, total, rows.Err()
}

func (r *JobRepository) UpdateJobStatus(ctx context.Context, id string, newStatus domain.Status) (*domain.Job, error) {
	query := `
		UPDATE jobs
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, payload, schedule_type, run_at, interval_seconds,
		          max_retries, status, retry_count, created_at, updated_at, version`

	row := r.pool.QueryRow(ctx, query, id, newStatus)
	return scanJob(row)
}

func (r *JobRepository) DeleteJob(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete job: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ResetStaleRunning is the crash-recovery sweep: any job left RUNNING past
// the staleness threshold lost its worker and is handed back to the
// eligible pool.
func (r *JobRepository) ResetStaleRunning(ctx context.Context, threshold time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE jobs
		SET    status = $2, updated_at = NOW()
		WHERE  status = $1 AND updated_at < $3`,
		domain.StatusRunning, domain.StatusScheduled, threshold,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stale running: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// BeginClaim opens a transaction and attempts to claim one ready job with
// FOR UPDATE SKIP LOCKED. Nulls-first on run_at: an explicitly-unconstrained
// job is eligible immediately and is preferred over a job with a future
// run_at that merely happens to be earlier in insertion order.
func (r *JobRepository) BeginClaim(ctx context.Context) (*domain.Job, repository.ClaimTx, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("begin claim tx: %w", err)
	}

	query := `
		SELECT id, name, payload, schedule_type, run_at, interval_seconds,
		       max_retries, status, retry_count, created_at, updated_at, version
		FROM jobs
		WHERE status = $1 AND (run_at IS NULL OR run_at <= NOW())
		ORDER BY run_at ASC NULLS FIRST
		LIMIT 1
		FOR UPDATE SKIP LOCKED`

	row := tx.QueryRow(ctx, query, domain.StatusScheduled)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return nil, &claimTx{tx: tx}, nil
		}
		_ = tx.Rollback(ctx)
		return nil, nil, err
	}
	return job, &claimTx{tx: tx}, nil
}

// claimTx implements repository.ClaimTx against one pgx.Tx.
type claimTx struct {
	tx pgx.Tx
}

func (c *claimTx) SetRunning(ctx context.Context, jobID string) error {
	_, err := c.tx.Exec(ctx,
		`UPDATE jobs SET status = $2, updated_at = NOW() WHERE id = $1`,
		jobID, domain.StatusRunning)
	return err
}

func (c *claimTx) Reschedule(ctx context.Context, jobID string, runAt *time.Time, retryCount int) error {
	_, err := c.tx.Exec(ctx,
		`UPDATE jobs SET status = $2, run_at = $3, retry_count = $4, updated_at = NOW() WHERE id = $1`,
		jobID, domain.StatusScheduled, runAt, retryCount)
	return err
}

func (c *claimTx) Complete(ctx context.Context, jobID string) error {
	_, err := c.tx.Exec(ctx,
		`UPDATE jobs SET status = $2, updated_at = NOW() WHERE id = $1`,
		jobID, domain.StatusCompleted)
	return err
}

func (c *claimTx) Fail(ctx context.Context, jobID string) error {
	_, err := c.tx.Exec(ctx,
		`UPDATE jobs SET status = $2, updated_at = NOW() WHERE id = $1`,
		jobID, domain.StatusFailed)
	return err
}

func (c *claimTx) CurrentStatus(ctx context.Context, jobID string) (domain.Status, error) {
	var status domain.Status
	err := c.tx.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1`, jobID).Scan(&status)
	return status, err
}

func (c *claimTx) InsertExecution(ctx context.Context, exec *domain.JobExecution) (*domain.JobExecution, error) {
	query := `
		INSERT INTO job_executions (job_id, attempt_number, started_at, status, error_message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, job_id, attempt_number, started_at, finished_at, status, error_message, result`

	row := c.tx.QueryRow(ctx, query, exec.JobID, exec.AttemptNumber, exec.StartedAt, exec.Status, exec.ErrorMessage)
	return scanExecution(row)
}

func (c *claimTx) FinishExecution(ctx context.Context, executionID string, status domain.ExecutionStatus, errMsg, result *string, finishedAt time.Time) error {
	_, err := c.tx.Exec(ctx, `
		UPDATE job_executions
		SET finished_at = $2, status = $3, error_message = $4, result = $5
		WHERE id = $1`,
		executionID, finishedAt, status, errMsg, result)
	return err
}

func (c *claimTx) Commit(ctx context.Context) error   { return c.tx.Commit(ctx) }
func (c *claimTx) Rollback(ctx context.Context) error { return c.tx.Rollback(ctx) }

// rowScanner is implemented by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var j domain.Job
	err := row.Scan(
		&j.ID, &j.Name, &j.Payload, &j.ScheduleType, &j.RunAt, &j.IntervalSeconds,
		&j.MaxRetries, &j.Status, &j.RetryCount, &j.CreatedAt, &j.UpdatedAt, &j.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	return &j, nil
}
