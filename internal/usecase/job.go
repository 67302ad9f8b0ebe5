package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ErlanBelekov/job-scheduler/internal/domain"
	"github.com/ErlanBelekov/job-scheduler/internal/repository"
)

// JobUsecase holds transport-agnostic operations on jobs, backed by a
// JobRepository and ExecutionRepository. It owns the validation and
// state-machine rules transport handlers must not bypass.
type JobUsecase struct {
	jobs       repository.JobRepository
	executions repository.ExecutionRepository
}

func NewJobUsecase(jobs repository.JobRepository, executions repository.ExecutionRepository) *JobUsecase {
	return &JobUsecase{jobs: jobs, executions: executions}
}

type CreateJobInput struct {
	Name            string
	Payload         []byte
	ScheduleType    domain.ScheduleType
	RunAt           *time.Time
	IntervalSeconds *int
	MaxRetries      *int
}

// CreateJob validates and inserts a new Job. A nil Payload is stored as an
// empty JSON object; a nil MaxRetries falls back to DefaultMaxRetries.
func (u *JobUsecase) CreateJob(ctx context.Context, input CreateJobInput) (*domain.Job, error) {
	payload := input.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	maxRetries := domain.DefaultMaxRetries
	if input.MaxRetries != nil {
		maxRetries = *input.MaxRetries
	}

	job := &domain.Job{
		Name:            input.Name,
		Payload:         payload,
		ScheduleType:    input.ScheduleType,
		RunAt:           input.RunAt,
		IntervalSeconds: input.IntervalSeconds,
		MaxRetries:      maxRetries,
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	if job.RunAt != nil && !job.RunAt.After(time.Now()) {
		return nil, fmt.Errorf("%w: run_at must be in the future", domain.ErrValidation)
	}

	created, err := u.jobs.InsertJob(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return created, nil
}

func (u *JobUsecase) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	job, err := u.jobs.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	return job, nil
}

type ListJobsInput struct {
	Status       *domain.Status
	ScheduleType *domain.ScheduleType
	Limit        int
	Offset       int
}

func (u *JobUsecase) ListJobs(ctx context.Context, input ListJobsInput) ([]*domain.Job, int, error) {
	return u.jobs.ListJobs(ctx, repository.ListJobsInput{
		Filter: repository.ListFilter{
			Status:       input.Status,
			ScheduleType: input.ScheduleType,
		},
		Limit:  input.Limit,
		Offset: input.Offset,
	})
}

// UpdateStatus moves a Job to newStatus if the operator is allowed to
// request that transition directly — a client can never ask for
// SCHEDULED -> RUNNING or any other worker-only edge.
func (u *JobUsecase) UpdateStatus(ctx context.Context, id string, newStatus domain.Status) (*domain.Job, error) {
	current, err := u.jobs.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanOperatorTransition(current.Status, newStatus) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := u.jobs.UpdateJobStatus(ctx, id, newStatus)
	if err != nil {
		return nil, fmt.Errorf("update job status: %w", err)
	}
	return updated, nil
}

func (u *JobUsecase) DeleteJob(ctx context.Context, id string) error {
	ok, err := u.jobs.DeleteJob(ctx, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if !ok {
		return domain.ErrJobNotFound
	}
	return nil
}

func (u *JobUsecase) ListExecutions(ctx context.Context, jobID string) ([]*domain.JobExecution, error) {
	if _, err := u.jobs.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	return u.executions.ListByJobID(ctx, jobID)
}
