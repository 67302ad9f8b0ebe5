package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/job-scheduler/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer    = "Internal server error"
	errJobNotFound       = "Job not found"
	errInvalidTransition = "Requested status transition is not allowed"
)

// writeJobError maps a JobUsecase error to the appropriate HTTP status,
// logging unrecognized errors as internal failures.
func writeJobError(ctx *gin.Context, logger *slog.Logger, action string, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"detail": errJobNotFound})
	case errors.Is(err, domain.ErrInvalidTransition):
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": errInvalidTransition})
	case errors.As(err, &validationErr), errors.Is(err, domain.ErrValidation):
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		logger.Error(action, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
	}
}
