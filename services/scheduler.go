// services/scheduler.go
package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRankRebuildScheduler periodically recomputes district ranks so the
// rank snapshots do not drift too far from live scores. The interval comes
// from RANK_REBUILD_MINUTES (default 60).
func (s *RankingService) StartRankRebuildScheduler() {
	interval := 60
	if v := os.Getenv("RANK_REBUILD_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = n
		}
	}

	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(time.Duration(interval)*time.Minute),
		gocron.NewTask(func() {
			log.Println("[Scheduler] Rebuilding district ranks")
			if err := s.ComputeAllDistrictRankings(); err != nil {
				log.Printf("[Scheduler] Rank rebuild finished with errors: %v", err)
			}
		}),
	)
	log.Printf("⏰ Rank rebuild scheduler started (every %d min)", interval)
}
