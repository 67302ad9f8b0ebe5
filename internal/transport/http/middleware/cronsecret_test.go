package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/job-scheduler/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCronSecretEngine(secret string) *gin.Engine {
	r := gin.New()
	r.POST("/cron", middleware.CronSecret(secret), func(c *gin.Context) {
		c.String(http.StatusOK, "ran")
	})
	return r
}

func TestCronSecret_Unconfigured_Returns503(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cron", nil)
	newCronSecretEngine("").ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestCronSecret_MissingHeader_Returns401(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cron", nil)
	newCronSecretEngine("super-secret").ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCronSecret_WrongSecret_Returns401(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cron", nil)
	req.Header.Set("X-Cron-Secret", "wrong")
	newCronSecretEngine("super-secret").ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCronSecret_CorrectSecret_PassesThrough(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cron", nil)
	req.Header.Set("X-Cron-Secret", "super-secret")
	newCronSecretEngine("super-secret").ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "ran" {
		t.Errorf("body = %q, want %q", w.Body.String(), "ran")
	}
}
