// seed inserts a handful of test jobs into the local dev database, covering
// the webhook and default-fetch Action Runner variants (the simulated delay
// and failure come from the worker's configuration, not from a job).
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ErlanBelekov/job-scheduler/internal/infrastructure/postgres"
)

type jobSpec struct {
	name            string
	payload         string
	scheduleType    string
	intervalSeconds *int
	maxRetries      int
}

func intPtr(v int) *int { return &v }

var specs = []jobSpec{
	{
		name:         "seed-webhook-ok",
		payload:      `{"webhook_url": "https://httpbin.org/post"}`,
		scheduleType: "one_time",
		maxRetries:   3,
	},
	{
		name:         "seed-webhook-fails",
		payload:      `{"webhook_url": "https://httpbin.org/status/500"}`,
		scheduleType: "one_time",
		maxRetries:   2,
	},
	{
		name:         "seed-default-fetch",
		payload:      `{}`,
		scheduleType: "one_time",
		maxRetries:   1,
	},
	{
		name:            "seed-recurring-fetch",
		payload:         `{}`,
		scheduleType:    "interval",
		intervalSeconds: intPtr(60),
		maxRetries:      3,
	},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	runAt := time.Now().Add(time.Minute)

	var inserted int
	var jobIDs []string

	for _, spec := range specs {
		var id string
		var runAtArg any
		if spec.scheduleType == "one_time" {
			runAtArg = runAt
		} else {
			runAtArg = nil
		}

		err := pool.QueryRow(ctx, `
			INSERT INTO jobs (
				name, payload, schedule_type, run_at, interval_seconds,
				max_retries, status, retry_count, version
			) VALUES ($1, $2, $3, $4, $5, $6, 'SCHEDULED', 0, 1)
			RETURNING id`,
			spec.name, spec.payload, spec.scheduleType, runAtArg, spec.intervalSeconds, spec.maxRetries,
		).Scan(&id)
		if err != nil {
			log.Fatalf("insert job %s: %v", spec.name, err)
		}
		jobIDs = append(jobIDs, id)
		inserted++
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Jobs created: %d\n", inserted)
	fmt.Printf("  One-time jobs scheduled for: %s\n", runAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("  Job IDs:")
	for i, id := range jobIDs {
		fmt.Printf("    %s  (%s)\n", id, specs[i].name)
	}
	fmt.Println()
	fmt.Println("Check progress with:")
	fmt.Println()
	fmt.Println("  curl -s http://localhost:8080/api/jobs/JOB_ID")
	fmt.Println("  curl -s http://localhost:8080/api/jobs/JOB_ID/executions")
}
