package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ErlanBelekov/job-scheduler/internal/domain"
	"github.com/ErlanBelekov/job-scheduler/internal/usecase"
	"github.com/gin-gonic/gin"
)

// jobUsecaser is the subset of JobUsecase the handler needs. Defined here,
// at the point of use, so tests can inject a fake.
type jobUsecaser interface {
	CreateJob(ctx context.Context, input usecase.CreateJobInput) (*domain.Job, error)
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	ListJobs(ctx context.Context, input usecase.ListJobsInput) ([]*domain.Job, int, error)
	UpdateStatus(ctx context.Context, id string, newStatus domain.Status) (*domain.Job, error)
	DeleteJob(ctx context.Context, id string) error
	ListExecutions(ctx context.Context, jobID string) ([]*domain.JobExecution, error)
}

type JobHandler struct {
	jobUsecase jobUsecaser
	logger     *slog.Logger
}

func NewJobHandler(jobUsecase jobUsecaser, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobUsecase: jobUsecase, logger: logger.With("component", "job_handler")}
}

type createJobRequest struct {
	Name            string              `json:"name"             binding:"required"`
	Payload         json.RawMessage     `json:"payload"`
	ScheduleType    domain.ScheduleType `json:"schedule_type"    binding:"required,oneof=one_time interval"`
	RunAt           *time.Time          `json:"run_at"`
	IntervalSeconds *int                `json:"interval_seconds"`
	MaxRetries      *int                `json:"max_retries"`
}

// jobExecutionResponse is the wire shape of a JobExecution.
type jobExecutionResponse struct {
	ID            string     `json:"id"`
	JobID         string     `json:"job_id"`
	AttemptNumber int        `json:"attempt_number"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
	Status        string     `json:"status"`
	ErrorMessage  *string    `json:"error_message"`
	Result        *string    `json:"result"`
}

func toJobExecutionResponse(e *domain.JobExecution) jobExecutionResponse {
	return jobExecutionResponse{
		ID:            e.ID,
		JobID:         e.JobID,
		AttemptNumber: e.AttemptNumber,
		StartedAt:     e.StartedAt,
		FinishedAt:    e.FinishedAt,
		Status:        string(e.Status),
		ErrorMessage:  e.ErrorMessage,
		Result:        e.Result,
	}
}

// jobResponse is the wire shape of a Job, including its executions.
type jobResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Payload         json.RawMessage        `json:"payload"`
	ScheduleType    domain.ScheduleType    `json:"schedule_type"`
	RunAt           *time.Time             `json:"run_at"`
	IntervalSeconds *int                   `json:"interval_seconds"`
	MaxRetries      int                    `json:"max_retries"`
	Status          domain.Status          `json:"status"`
	RetryCount      int                    `json:"retry_count"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Version         int                    `json:"version"`
	Executions      []jobExecutionResponse `json:"executions"`
}

func toJobResponse(job *domain.Job, executions []*domain.JobExecution) jobResponse {
	items := make([]jobExecutionResponse, len(executions))
	for i, e := range executions {
		items[i] = toJobExecutionResponse(e)
	}
	return jobResponse{
		ID:              job.ID,
		Name:            job.Name,
		Payload:         job.Payload,
		ScheduleType:    job.ScheduleType,
		RunAt:           job.RunAt,
		IntervalSeconds: job.IntervalSeconds,
		MaxRetries:      job.MaxRetries,
		Status:          job.Status,
		RetryCount:      job.RetryCount,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
		Version:         job.Version,
		Executions:      items,
	}
}

func (h *JobHandler) Create(ctx *gin.Context) {
	var req createJobRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	job, err := h.jobUsecase.CreateJob(ctx.Request.Context(), usecase.CreateJobInput{
		Name:            req.Name,
		Payload:         req.Payload,
		ScheduleType:    req.ScheduleType,
		RunAt:           req.RunAt,
		IntervalSeconds: req.IntervalSeconds,
		MaxRetries:      req.MaxRetries,
	})
	if err != nil {
		writeJobError(ctx, h.logger, "create job", err)
		return
	}

	// A freshly created job has no executions yet.
	ctx.JSON(http.StatusOK, toJobResponse(job, nil))
}

func (h *JobHandler) GetByID(ctx *gin.Context) {
	jobID := ctx.Param("id")

	job, err := h.jobUsecase.GetJob(ctx.Request.Context(), jobID)
	if err != nil {
		writeJobError(ctx, h.logger, "get job by id", err)
		return
	}

	executions, err := h.jobUsecase.ListExecutions(ctx.Request.Context(), jobID)
	if err != nil {
		writeJobError(ctx, h.logger, "get job by id", err)
		return
	}

	ctx.JSON(http.StatusOK, toJobResponse(job, executions))
}

func (h *JobHandler) List(ctx *gin.Context) {
	var input usecase.ListJobsInput

	if s := ctx.Query("status"); s != "" {
		status := domain.Status(s)
		input.Status = &status
	}
	if st := ctx.Query("schedule_type"); st != "" {
		scheduleType := domain.ScheduleType(st)
		input.ScheduleType = &scheduleType
	}
	input.Limit, _ = strconv.Atoi(ctx.Query("limit"))
	input.Offset, _ = strconv.Atoi(ctx.Query("offset"))

	jobs, total, err := h.jobUsecase.ListJobs(ctx.Request.Context(), input)
	if err != nil {
		writeJobError(ctx, h.logger, "list jobs", err)
		return
	}

	items := make([]jobResponse, len(jobs))
	for i, job := range jobs {
		executions, err := h.jobUsecase.ListExecutions(ctx.Request.Context(), job.ID)
		if err != nil {
			writeJobError(ctx, h.logger, "list jobs", err)
			return
		}
		items[i] = toJobResponse(job, executions)
	}

	ctx.JSON(http.StatusOK, gin.H{"jobs": items, "total": total})
}

type updateStatusRequest struct {
	Status domain.Status `json:"status" binding:"required"`
}

func (h *JobHandler) UpdateStatus(ctx *gin.Context) {
	jobID := ctx.Param("id")

	var req updateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	job, err := h.jobUsecase.UpdateStatus(ctx.Request.Context(), jobID, req.Status)
	if err != nil {
		writeJobError(ctx, h.logger, "update job status", err)
		return
	}

	executions, err := h.jobUsecase.ListExecutions(ctx.Request.Context(), jobID)
	if err != nil {
		writeJobError(ctx, h.logger, "update job status", err)
		return
	}

	ctx.JSON(http.StatusOK, toJobResponse(job, executions))
}

func (h *JobHandler) Delete(ctx *gin.Context) {
	jobID := ctx.Param("id")

	if err := h.jobUsecase.DeleteJob(ctx.Request.Context(), jobID); err != nil {
		writeJobError(ctx, h.logger, "delete job", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *JobHandler) ListExecutions(ctx *gin.Context) {
	jobID := ctx.Param("id")

	executions, err := h.jobUsecase.ListExecutions(ctx.Request.Context(), jobID)
	if err != nil {
		writeJobError(ctx, h.logger, "list executions", err)
		return
	}

	items := make([]jobExecutionResponse, len(executions))
	for i, e := range executions {
		items[i] = toJobExecutionResponse(e)
	}
	ctx.JSON(http.StatusOK, gin.H{"executions": items})
}
