// services/stats.go - Stats snapshot builder
package services

import (
	"fmt"
	"time"

	"paddock/models"

	"gorm.io/gorm"
)

// HighOddsThreshold is the decimal-odds cutoff above which a winning bet
// counts as a high-odds win.
const HighOddsThreshold = 5.0

// boostMonthScanCap bounds the trailing boosted-month scan.
const boostMonthScanCap = 24

// UserStats is the flattened metric snapshot for one user at one point in
// time, the sole input to condition evaluation. It is rebuilt on every
// evaluation and never cached.
type UserStats struct {
	UserID uint

	// Lifetime betting
	TotalBets              int
	TotalWins              int
	TotalPoints            int
	PerfectBets            int
	PartialWins            int
	WinRate                float64
	BoostsUsed             int
	ConsecutiveBoostMonths int
	HighOddsWins           int
	ComebackWins           int

	// Current calendar month
	MonthlyBets        int
	MonthlyWins        int
	MonthlyPoints      int
	MonthlyPerfectBets int
	MonthlyWinRate     float64

	// Trailing 30 days (temporary form tiers)
	RollingBets    int
	RollingWins    int
	RollingWinRate float64

	// Streaks (copied from the streak record)
	CurrentMonthlyStreak  int
	CurrentLifetimeStreak int
	LongestLifetimeStreak int
	CurrentWinStreak      int
	BestWinStreak         int

	// Rankings
	CurrentRank            int
	BestRank               int
	ConsecutiveFirstPlaces int

	// Racing (only when linked to a competitor)
	IsCompetitor      bool
	CareerWins        int
	RaceCount         int
	RaceWinStreak     int
	BestRaceWinStreak int
	CurrentPlayStreak int
	BestPlayStreak    int
	Rating            float64
	RecentAvgFinish   float64
}

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Build computes a fresh snapshot for the user. An absent user is an error;
// every other absent relation (no streak row, no ranking this month, no
// competitor) degrades to zero values.
func (s *StatsService) Build(userID uint) (*UserStats, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("build stats: user %d: %w", userID, err)
	}

	stats := &UserStats{UserID: userID}
	now := time.Now()

	var bets []models.Bet
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&bets).Error; err != nil {
		return nil, fmt.Errorf("build stats: bets: %w", err)
	}
	s.foldBets(stats, bets, now)

	s.foldRankings(stats, userID, now)

	var streak models.UserStreak
	if err := s.db.Where("user_id = ?", userID).First(&streak).Error; err == nil {
		stats.CurrentMonthlyStreak = streak.CurrentMonthlyStreak
		stats.CurrentLifetimeStreak = streak.CurrentLifetimeStreak
		stats.LongestLifetimeStreak = streak.LongestLifetimeStreak
		stats.CurrentWinStreak = streak.CurrentWinStreak
		stats.BestWinStreak = streak.BestWinStreak
	}

	if user.CompetitorID != nil {
		var competitor models.Competitor
		if err := s.db.First(&competitor, *user.CompetitorID).Error; err == nil {
			stats.IsCompetitor = true
			stats.CareerWins = competitor.CareerWins
			stats.RaceCount = competitor.RaceCount
			stats.RaceWinStreak = competitor.CurrentWinStreak
			stats.BestRaceWinStreak = competitor.BestWinStreak
			stats.CurrentPlayStreak = competitor.CurrentPlayStreak
			stats.BestPlayStreak = competitor.BestPlayStreak
			// Conservative lower bound on skill.
			stats.Rating = competitor.SkillMean - 2*competitor.SkillSigma
			stats.RecentAvgFinish = competitor.RecentAvgFinish
		}
	}

	return stats, nil
}

func (s *StatsService) foldBets(stats *UserStats, bets []models.Bet, now time.Time) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	rollingStart := now.AddDate(0, 0, -30)
	boostMonths := make(map[string]bool)
	lossRun := 0

	for _, bet := range bets {
		stats.TotalBets++
		stats.TotalPoints += bet.Points
		if bet.IsBoosted {
			stats.BoostsUsed++
			// Key in UTC so the bucket matches the trailingBoostRun
			// cursor regardless of the stored timestamp's zone.
			boostMonths[bet.CreatedAt.UTC().Format("2006-01")] = true
		}
		if bet.IsPerfect {
			stats.PerfectBets++
		}

		inMonth := !bet.CreatedAt.Before(monthStart)
		if inMonth {
			stats.MonthlyBets++
			stats.MonthlyPoints += bet.Points
			if bet.IsPerfect {
				stats.MonthlyPerfectBets++
			}
		}
		inWindow := !bet.CreatedAt.Before(rollingStart)
		if inWindow {
			stats.RollingBets++
		}

		// Chronological comeback scan: a win right after three or more
		// straight losses counts once, then the loss run restarts.
		switch bet.Status {
		case models.BetWon:
			stats.TotalWins++
			if inMonth {
				stats.MonthlyWins++
			}
			if inWindow {
				stats.RollingWins++
			}
			if bet.Odds >= HighOddsThreshold {
				stats.HighOddsWins++
			}
			if lossRun >= 3 {
				stats.ComebackWins++
			}
			lossRun = 0
		case models.BetLost:
			lossRun++
		case models.BetPartialWin:
			stats.PartialWins++
			lossRun = 0
		}
	}

	if stats.TotalBets > 0 {
		stats.WinRate = float64(stats.TotalWins) / float64(stats.TotalBets) * 100
	}
	if stats.MonthlyBets > 0 {
		stats.MonthlyWinRate = float64(stats.MonthlyWins) / float64(stats.MonthlyBets) * 100
	}
	if stats.RollingBets > 0 {
		stats.RollingWinRate = float64(stats.RollingWins) / float64(stats.RollingBets) * 100
	}

	stats.ConsecutiveBoostMonths = trailingBoostRun(boostMonths, now)
}

// trailingBoostRun counts consecutive calendar months with at least one
// boosted bet, walking back from the current month (or the previous one if
// the current month has no boost yet), capped at boostMonthScanCap.
func trailingBoostRun(boostMonths map[string]bool, now time.Time) int {
	utcNow := now.UTC()
	cursor := time.Date(utcNow.Year(), utcNow.Month(), 1, 0, 0, 0, 0, time.UTC)
	if !boostMonths[cursor.Format("2006-01")] {
		cursor = cursor.AddDate(0, -1, 0)
	}

	run := 0
	for run < boostMonthScanCap && boostMonths[cursor.Format("2006-01")] {
		run++
		cursor = cursor.AddDate(0, -1, 0)
	}
	return run
}

func (s *StatsService) foldRankings(stats *UserStats, userID uint, now time.Time) {
	var current models.MonthlyRanking
	err := s.db.Where("user_id = ? AND year = ? AND month = ?", userID, now.Year(), int(now.Month())).
		First(&current).Error
	if err == nil {
		stats.CurrentRank = current.Rank
	}

	var history []models.MonthlyRanking
	if err := s.db.Where("user_id = ?", userID).
		Order("year DESC, month DESC").Find(&history).Error; err != nil {
		return
	}

	for _, row := range history {
		if stats.BestRank == 0 || row.Rank < stats.BestRank {
			stats.BestRank = row.Rank
		}
	}

	if len(history) == 0 {
		return
	}

	// Trailing run of contiguous #1 months, newest first.
	expectYear, expectMonth := history[0].Year, history[0].Month
	for _, row := range history {
		if row.Year != expectYear || row.Month != expectMonth || row.Rank != 1 {
			break
		}
		stats.ConsecutiveFirstPlaces++
		expectMonth--
		if expectMonth == 0 {
			expectMonth = 12
			expectYear--
		}
	}
}
