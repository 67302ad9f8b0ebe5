package scheduler

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ErlanBelekov/job-scheduler/internal/domain"
)

// ActionRunner is the polymorphic "perform the side effect" contract. It
// must never mutate the repository, must never panic out to the caller,
// and must return within a bounded wall-clock.
type ActionRunner interface {
	Run(ctx context.Context, job *domain.Job) (ok bool, message string)
}

// ActionConfig carries the simulation knobs and the default-fetch target —
// an immutable record loaded once at start and passed explicitly rather
// than read from a process-wide singleton.
type ActionConfig struct {
	MinSleep           time.Duration
	MaxSleep           time.Duration
	FailureProbability float64
	QuoteEndpoint      string
}

type webhookPayload struct {
	WebhookURL  string `json:"webhook_url"`
	CallbackURL string `json:"callback_url"`
}

// DispatchRunner selects between the Webhook and DefaultFetch variants by
// inspecting the job's payload. The Simulated delay and failure, when
// configured in ActionConfig, run first for every job regardless of payload.
type DispatchRunner struct {
	client *http.Client
	logger *slog.Logger
	cfg    ActionConfig
}

func NewDispatchRunner(cfg ActionConfig, logger *slog.Logger) *DispatchRunner {
	return &DispatchRunner{
		client: &http.Client{
			Timeout: 5 * time.Minute, // bounds each request; no per-job context deadline is applied
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
			},
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
		logger: logger.With("component", "action_runner"),
		cfg:    cfg,
	}
}

// Run never panics out to the caller: any unexpected error surfaces as
// (false, summary).
func (d *DispatchRunner) Run(ctx context.Context, job *domain.Job) (ok bool, message string) {
	defer func() {
		if r := recover(); r != nil {
			ok, message = false, fmt.Sprintf("action panicked: %v", r)
		}
	}()

	if d.cfg.MaxSleep > 0 {
		d.simulateDelay(ctx)
	}
	if d.cfg.FailureProbability > 0 && rand.Float64() < d.cfg.FailureProbability {
		return false, "Simulated failure"
	}

	var wp webhookPayload
	if len(job.Payload) > 0 {
		_ = json.Unmarshal(job.Payload, &wp)
	}
	if url := firstNonEmpty(wp.WebhookURL, wp.CallbackURL); isHTTPURL(url) {
		return d.runWebhook(ctx, job, url)
	}
	return d.runDefaultFetch(ctx, job)
}

// simulateDelay sleeps for a uniform random duration in [MinSleep, MaxSleep),
// or exactly MinSleep when the two are equal, exercising retry and
// crash-recovery paths in test without real I/O.
func (d *DispatchRunner) simulateDelay(ctx context.Context) {
	lo, hi := d.cfg.MinSleep, d.cfg.MaxSleep
	if hi < lo {
		return
	}
	delay := lo
	if hi > lo {
		delay += time.Duration(rand.Int63n(int64(hi - lo)))
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

func (d *DispatchRunner) runWebhook(ctx context.Context, job *domain.Job, url string) (bool, string) {
	body := map[string]any{
		"job_id":        job.ID,
		"job_name":      job.Name,
		"run_at":        job.RunAt,
		"schedule_type": job.ScheduleType,
		"attempt":       job.RetryCount + 1,
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return false, fmt.Sprintf("encode webhook body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(buf)))
	if err != nil {
		return false, fmt.Sprintf("build webhook request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	d.logger.InfoContext(ctx, "sending webhook", "job_id", job.ID, "url", url)

	resp, err := d.client.Do(req)
	if err != nil {
		return false, fmt.Sprintf("webhook request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Sprintf("webhook returned status %d", resp.StatusCode)
	}
	return true, fmt.Sprintf("webhook delivered, status %d", resp.StatusCode)
}

func (d *DispatchRunner) runDefaultFetch(ctx context.Context, job *domain.Job) (bool, string) {
	if d.cfg.QuoteEndpoint == "" {
		return false, "no quote endpoint configured"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.cfg.QuoteEndpoint, nil)
	if err != nil {
		return false, fmt.Sprintf("build quote request: %v", err)
	}

	d.logger.InfoContext(ctx, "fetching quote", "job_id", job.ID, "url", d.cfg.QuoteEndpoint)

	resp, err := d.client.Do(req)
	if err != nil {
		return false, fmt.Sprintf("quote request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, fmt.Sprintf("quote endpoint returned status %d", resp.StatusCode)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, fmt.Sprintf("quote body did not parse: %v", err)
	}
	return true, "fetched quote"
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
