package handler_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ErlanBelekov/job-scheduler/internal/domain"
	"github.com/ErlanBelekov/job-scheduler/internal/transport/http/handler"
	"github.com/ErlanBelekov/job-scheduler/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeJobUsecase struct {
	createJob      func(ctx context.Context, input usecase.CreateJobInput) (*domain.Job, error)
	getJob         func(ctx context.Context, id string) (*domain.Job, error)
	listJobs       func(ctx context.Context, input usecase.ListJobsInput) ([]*domain.Job, int, error)
	updateStatus   func(ctx context.Context, id string, newStatus domain.Status) (*domain.Job, error)
	deleteJob      func(ctx context.Context, id string) error
	listExecutions func(ctx context.Context, jobID string) ([]*domain.JobExecution, error)
}

func (f *fakeJobUsecase) CreateJob(ctx context.Context, input usecase.CreateJobInput) (*domain.Job, error) {
	return f.createJob(ctx, input)
}
func (f *fakeJobUsecase) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	return f.getJob(ctx, id)
}
func (f *fakeJobUsecase) ListJobs(ctx context.Context, input usecase.ListJobsInput) ([]*domain.Job, int, error) {
	return f.listJobs(ctx, input)
}
func (f *fakeJobUsecase) UpdateStatus(ctx context.Context, id string, newStatus domain.Status) (*domain.Job, error) {
	return f.updateStatus(ctx, id, newStatus)
}
func (f *fakeJobUsecase) DeleteJob(ctx context.Context, id string) error {
	return f.deleteJob(ctx, id)
}
func (f *fakeJobUsecase) ListExecutions(ctx context.Context, jobID string) ([]*domain.JobExecution, error) {
	return f.listExecutions(ctx, jobID)
}

func newTestEngine(uc *fakeJobUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewJobHandler(uc, logger)

	r := gin.New()
	r.POST("/jobs", h.Create)
	r.GET("/jobs", h.List)
	r.GET("/jobs/:id", h.GetByID)
	r.PATCH("/jobs/:id", h.UpdateStatus)
	r.DELETE("/jobs/:id", h.Delete)
	r.GET("/jobs/:id/executions", h.ListExecutions)
	return r
}

func TestCreate_InvalidJSON_Returns400(t *testing.T) {
	uc := &fakeJobUsecase{}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(`{bad json}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreate_MissingRequiredFields_Returns400(t *testing.T) {
	uc := &fakeJobUsecase{}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreate_ValidationError_Returns400(t *testing.T) {
	uc := &fakeJobUsecase{
		createJob: func(_ context.Context, _ usecase.CreateJobInput) (*domain.Job, error) {
			return nil, fmt.Errorf("%w: run_at must be in the future", domain.ErrValidation)
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs",
		strings.NewReader(`{"name":"job","schedule_type":"one_time","run_at":"2099-01-01T00:00:00Z"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreate_Success_Returns200(t *testing.T) {
	uc := &fakeJobUsecase{
		createJob: func(_ context.Context, _ usecase.CreateJobInput) (*domain.Job, error) {
			return &domain.Job{ID: "job-1"}, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs",
		strings.NewReader(`{"name":"job","schedule_type":"one_time","run_at":"2099-01-01T00:00:00Z"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"id":"job-1"`) || !strings.Contains(body, `"executions":[]`) {
		t.Errorf("body = %s, want snake_case fields with empty executions", body)
	}
}

func TestGetByID_NotFound_Returns404(t *testing.T) {
	uc := &fakeJobUsecase{
		getJob: func(_ context.Context, _ string) (*domain.Job, error) {
			return nil, domain.ErrJobNotFound
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs/missing", nil)
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetByID_Found_Returns200(t *testing.T) {
	uc := &fakeJobUsecase{
		getJob: func(_ context.Context, id string) (*domain.Job, error) {
			return &domain.Job{ID: id}, nil
		},
		listExecutions: func(_ context.Context, _ string) ([]*domain.JobExecution, error) {
			return nil, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs/job-1", nil)
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"executions":[]`) {
		t.Errorf("body = %s, want empty executions array", body)
	}
}

func TestUpdateStatus_InvalidTransition_Returns400(t *testing.T) {
	uc := &fakeJobUsecase{
		updateStatus: func(_ context.Context, _ string, _ domain.Status) (*domain.Job, error) {
			return nil, domain.ErrInvalidTransition
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/jobs/job-1", strings.NewReader(`{"status":"COMPLETED"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDelete_Success_Returns204(t *testing.T) {
	uc := &fakeJobUsecase{
		deleteJob: func(_ context.Context, _ string) error { return nil },
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/jobs/job-1", nil)
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}

func TestDelete_NotFound_Returns404(t *testing.T) {
	uc := &fakeJobUsecase{
		deleteJob: func(_ context.Context, _ string) error { return domain.ErrJobNotFound },
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/jobs/missing", nil)
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListExecutions_UnknownJob_Returns404(t *testing.T) {
	uc := &fakeJobUsecase{
		listExecutions: func(_ context.Context, _ string) ([]*domain.JobExecution, error) {
			return nil, domain.ErrJobNotFound
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs/missing/executions", nil)
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
