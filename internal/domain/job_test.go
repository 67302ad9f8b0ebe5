package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ErlanBelekov/job-scheduler/internal/domain"
)

func validJob() *domain.Job {
	runAt := time.Now().Add(time.Hour)
	return &domain.Job{
		Name:         "send-report",
		Payload:      []byte(`{}`),
		ScheduleType: domain.ScheduleOneTime,
		RunAt:        &runAt,
		MaxRetries:   domain.DefaultMaxRetries,
	}
}

func TestValidate_WellFormedOneTimeJob_NoError(t *testing.T) {
	if err := validJob().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_WellFormedIntervalJob_NoError(t *testing.T) {
	seconds := 300
	job := &domain.Job{
		Name:            "sync-inventory",
		Payload:         []byte(`{}`),
		ScheduleType:    domain.ScheduleInterval,
		IntervalSeconds: &seconds,
		MaxRetries:      domain.DefaultMaxRetries,
	}
	if err := job.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_EmptyName_ReturnsValidationError(t *testing.T) {
	job := validJob()
	job.Name = ""
	assertValidationError(t, job.Validate())
}

func TestValidate_NameTooLong_ReturnsValidationError(t *testing.T) {
	job := validJob()
	name := make([]byte, domain.MaxNameLength+1)
	for i := range name {
		name[i] = 'a'
	}
	job.Name = string(name)
	assertValidationError(t, job.Validate())
}

func TestValidate_OneTimeWithoutRunAt_ReturnsValidationError(t *testing.T) {
	job := validJob()
	job.RunAt = nil
	assertValidationError(t, job.Validate())
}

func TestValidate_OneTimeWithIntervalSeconds_ReturnsValidationError(t *testing.T) {
	job := validJob()
	seconds := 60
	job.IntervalSeconds = &seconds
	assertValidationError(t, job.Validate())
}

func TestValidate_IntervalWithoutIntervalSeconds_ReturnsValidationError(t *testing.T) {
	job := validJob()
	job.ScheduleType = domain.ScheduleInterval
	job.RunAt = nil
	assertValidationError(t, job.Validate())
}

func TestValidate_IntervalWithNonPositiveIntervalSeconds_ReturnsValidationError(t *testing.T) {
	job := validJob()
	job.ScheduleType = domain.ScheduleInterval
	job.RunAt = nil
	zero := 0
	job.IntervalSeconds = &zero
	assertValidationError(t, job.Validate())
}

func TestValidate_UnknownScheduleType_ReturnsValidationError(t *testing.T) {
	job := validJob()
	job.ScheduleType = domain.ScheduleType("yearly")
	assertValidationError(t, job.Validate())
}

func TestValidate_NegativeMaxRetries_ReturnsValidationError(t *testing.T) {
	job := validJob()
	job.MaxRetries = -1
	assertValidationError(t, job.Validate())
}

func TestValidate_MaxRetriesAboveLimit_ReturnsValidationError(t *testing.T) {
	job := validJob()
	job.MaxRetries = domain.MaxMaxRetries + 1
	assertValidationError(t, job.Validate())
}

func TestValidate_RetryCountAboveMaxRetries_ReturnsValidationError(t *testing.T) {
	job := validJob()
	job.MaxRetries = 2
	job.RetryCount = 3
	assertValidationError(t, job.Validate())
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a validation error, got nil")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false for %v", err)
	}
}

func TestStatus_Terminal(t *testing.T) {
	cases := map[domain.Status]bool{
		domain.StatusScheduled: false,
		domain.StatusRunning:   false,
		domain.StatusPaused:    false,
		domain.StatusCompleted: true,
		domain.StatusFailed:    true,
		domain.StatusCancelled: true,
	}
	for status, want := range cases {
		if got := status.Terminal(); got != want {
			t.Errorf("Status(%q).Terminal() = %v, want %v", status, got, want)
		}
	}
}
