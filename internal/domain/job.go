package domain

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type ScheduleType string

const (
	ScheduleOneTime  ScheduleType = "one_time"
	ScheduleInterval ScheduleType = "interval"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusRunning   Status = "RUNNING"
	StatusPaused    Status = "PAUSED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal reports whether s is a terminal status: the core never exits it.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Job is a scheduled or recurring unit of work.
type Job struct {
	ID              string
	Name            string
	Payload         json.RawMessage
	ScheduleType    ScheduleType
	RunAt           *time.Time
	IntervalSeconds *int
	MaxRetries      int

	Status     Status
	RetryCount int

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

// ExecutionStatus is the terminal disposition of a single attempt.
type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "SUCCESS"
	ExecutionFailed  ExecutionStatus = "FAILED"
)

// JobExecution is one attempt record for a Job, success or failure.
type JobExecution struct {
	ID            string
	JobID         string
	AttemptNumber int
	StartedAt     time.Time
	FinishedAt    *time.Time
	Status        ExecutionStatus
	ErrorMessage  *string
	Result        *string
}

const (
	MaxNameLength     = 500
	MaxMaxRetries     = 100
	DefaultMaxRetries = 3
	DefaultListLimit  = 100
	MaxListLimit      = 500
)

// Validate enforces the job invariants: schedule-type-dependent
// run_at/interval_seconds, and a retry budget within bounds. It does not
// enforce run_at being in the future — callers that require that (the
// usecase layer, not the repository) check it separately so the repository
// itself stays usable for system-internal rewrites such as rescheduling.
func (j *Job) Validate() error {
	if j.Name == "" {
		return errValidation("name must not be empty")
	}
	if len(j.Name) > MaxNameLength {
		return errValidation("name exceeds maximum length")
	}
	switch j.ScheduleType {
	case ScheduleOneTime:
		if j.RunAt == nil {
			return errValidation("one_time jobs require run_at")
		}
		if j.IntervalSeconds != nil {
			return errValidation("one_time jobs must not have interval_seconds")
		}
	case ScheduleInterval:
		if j.IntervalSeconds == nil || *j.IntervalSeconds <= 0 {
			return errValidation("interval jobs require a positive interval_seconds")
		}
	default:
		return errValidation("schedule_type must be one_time or interval")
	}
	if j.MaxRetries < 0 || j.MaxRetries > MaxMaxRetries {
		return errValidation("max_retries must be between 0 and 100")
	}
	if j.RetryCount > j.MaxRetries {
		return errValidation("retry_count must not exceed max_retries")
	}
	return nil
}

func errValidation(msg string) error {
	return &ValidationError{msg: msg}
}

// ValidationError wraps a human-readable reason a submission was rejected.
// errors.Is(err, ErrValidation) reports true for any ValidationError.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
