// services/scheduler.go - Scheduled temporary-achievement sweeps
package services

import (
	"log"
	"os"
	"strconv"
	"time"
)

// SweepService drives the daily and monthly recomputation of temporary
// achievements. The engine itself only exposes per-user recomputation; this
// is the wall-clock collaborator that calls it in a loop.
type SweepService struct {
	temporary *TemporaryAchievementService
	streaks   *StreakService
	stop      chan struct{}
}

var sweepService *SweepService

// InitSweepService initializes the singleton sweep service.
func InitSweepService(temporary *TemporaryAchievementService, streaks *StreakService) {
	sweepService = &SweepService{
		temporary: temporary,
		streaks:   streaks,
		stop:      make(chan struct{}),
	}
}

// GetSweepService returns the initialized sweep service.
func GetSweepService() *SweepService {
	return sweepService
}

// Start launches the sweep loop.
func (s *SweepService) Start() {
	go s.run()
}

// Stop terminates the sweep loop.
func (s *SweepService) Stop() {
	close(s.stop)
}

func (s *SweepService) run() {
	hour := sweepHour()
	log.Printf("Sweep scheduler started (daily at %02d:00)", hour)

	for {
		now := time.Now()
		next := nextRunTime(now, hour)

		select {
		case <-time.After(next.Sub(now)):
			// The monthly sweep runs on the first of the month, before the
			// daily one, so medals reflect the fresh month's rankings.
			if time.Now().Day() == 1 {
				s.RunMonthly()
			}
			s.RunDaily()
		case <-s.stop:
			log.Println("Sweep scheduler stopped")
			return
		}
	}
}

// RunDaily recomputes all temporary-achievement families for every active
// user. Both sweeps run the same recomputation; the split only controls
// cadence.
func (s *SweepService) RunDaily() {
	start := time.Now()
	swept, err := s.temporary.RecomputeAll()
	if err != nil {
		log.Printf("Daily sweep failed: %v", err)
		return
	}
	log.Printf("✅ Daily sweep completed: %d users in %v", swept, time.Since(start))
}

// RunMonthly resets monthly streak counters at the calendar boundary, then
// recomputes all families.
func (s *SweepService) RunMonthly() {
	start := time.Now()
	if err := s.streaks.ResetMonthlyCounters(); err != nil {
		log.Printf("Monthly streak reset failed: %v", err)
	}
	swept, err := s.temporary.RecomputeAll()
	if err != nil {
		log.Printf("Monthly sweep failed: %v", err)
		return
	}
	log.Printf("✅ Monthly sweep completed: %d users in %v", swept, time.Since(start))
}

func sweepHour() int {
	if v := os.Getenv("SWEEP_HOUR"); v != "" {
		if hour, err := strconv.Atoi(v); err == nil && hour >= 0 && hour <= 23 {
			return hour
		}
	}
	return 3
}

// nextRunTime returns the next occurrence of the given hour.
func nextRunTime(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
