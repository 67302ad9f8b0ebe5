package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/job-scheduler/internal/transport/http/handler"
	"github.com/ErlanBelekov/job-scheduler/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, jobHandler *handler.JobHandler, cronHandler *handler.CronHandler, healthHandler *handler.HealthHandler, cronSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Security(), sloggin.New(logger), middleware.Metrics())

	api := r.Group("/api")

	api.GET("/health", healthHandler.Liveness)
	api.GET("/health/db", healthHandler.Readiness)

	jobs := api.Group("/jobs")
	jobs.POST("", jobHandler.Create)
	jobs.GET("", jobHandler.List)
	jobs.GET("/:id", jobHandler.GetByID)
	jobs.PATCH("/:id", jobHandler.UpdateStatus)
	jobs.DELETE("/:id", jobHandler.Delete)
	jobs.GET("/:id/executions", jobHandler.ListExecutions)

	cron := api.Group("/cron", middleware.CronSecret(cronSecret))
	cron.POST("/execute-pending-jobs", cronHandler.ExecutePending)

	return r
}
