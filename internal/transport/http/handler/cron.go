package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// pendingRunner is the subset of scheduler.Trigger the handler needs.
// Defined here, at the point of use, so tests can inject a fake.
type pendingRunner interface {
	RunPending(ctx context.Context, maxJobs int) (staleReset int, processed int, err error)
}

// CronHandler exposes a one-shot trigger over HTTP, for platforms (e.g. a
// managed cron product) that invoke a URL on a schedule instead of running
// a resident Worker.
type CronHandler struct {
	trigger pendingRunner
	maxJobs int
	logger  *slog.Logger
}

func NewCronHandler(trigger pendingRunner, maxJobs int, logger *slog.Logger) *CronHandler {
	return &CronHandler{trigger: trigger, maxJobs: maxJobs, logger: logger.With("component", "cron_handler")}
}

// ExecutePending handles POST /api/cron/execute-pending-jobs. It requires
// the middleware.CronSecret middleware to have already rejected an unconfigured or
// mismatched X-Cron-Secret.
func (h *CronHandler) ExecutePending(ctx *gin.Context) {
	staleReset, processed, err := h.trigger.RunPending(ctx.Request.Context(), h.maxJobs)
	if err != nil {
		h.logger.Error("run pending", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"stale_reset":    staleReset,
		"jobs_processed": processed,
	})
}
