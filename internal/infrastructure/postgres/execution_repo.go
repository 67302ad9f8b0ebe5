package postgres

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/job-scheduler/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ExecutionRepository struct {
	pool *pgxpool.Pool
}

func NewExecutionRepository(pool *pgxpool.Pool) *ExecutionRepository {
	return &ExecutionRepository{pool: pool}
}

// ListByJobID returns every attempt recorded for a Job, ordered by
// started_at ascending, matching attempt_number order.
func (r *ExecutionRepository) ListByJobID(ctx context.Context, jobID string) ([]*domain.JobExecution, error) {
	query := `
		SELECT id, job_id, attempt_number, started_at, finished_at,
		       status, error_message, result
		FROM job_executions
		WHERE job_id = $1
		ORDER BY started_at ASC`

	rows, err := r.pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var executions []*domain.JobExecution
	for rows.Next() {
		e, err := scanExecution(rows)
		if err != nil {
			return nil, err
		}
		executions = append(executions, e)
	}
	return executions, rows.Err()
}

func scanExecution(row rowScanner) (*domain.JobExecution, error) {
	var e domain.JobExecution
	err := row.Scan(
		&e.ID, &e.JobID, &e.AttemptNumber, &e.StartedAt, &e.FinishedAt,
		&e.Status, &e.ErrorMessage, &e.Result,
	)
	if err != nil {
		return nil, fmt.Errorf("scan execution: %w", err)
	}
	return &e, nil
}
