// services/scheduler.go
package services

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/go-co-op/gocron/v2"
)

// StartIngestScheduler runs a full ingestion once a day. The hour is
// configurable via INGEST_HOUR (UTC, default 06:00) so deployments can chase
// their sources' publishing rhythm.
func (s *IngestService) StartIngestScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	hour := 6
	if raw := os.Getenv("INGEST_HOUR"); raw != "" {
		if h, err := strconv.Atoi(raw); err == nil && h >= 0 && h <= 23 {
			hour = h
		}
	}

	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), 0, 0))),
		gocron.NewTask(func() {
			log.Println("[Scheduler] Starting daily ingestion run")
			summary, err := s.RunIngest(context.Background(), IngestOptions{Days: 3})
			if err != nil {
				log.Printf("❌ [Scheduler] Daily run failed: %v", err)
				return
			}
			log.Printf("✅ [Scheduler] Daily run done: %s", summary.Message)
		}),
	)
	log.Printf("[Scheduler] Daily ingestion scheduled for %02d:00 UTC", hour)
}
