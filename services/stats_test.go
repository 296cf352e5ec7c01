// services/stats_test.go
package services

import (
	"testing"
	"time"

	"paddock/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBet(t *testing.T, db *gorm.DB, userID uint, at time.Time, status string, opts ...func(*models.Bet)) {
	t.Helper()

	bet := models.Bet{
		UserID:       userID,
		Status:       status,
		CorrectCount: 0,
		TotalCount:   3,
		CreatedAt:    at,
	}
	for _, opt := range opts {
		opt(&bet)
	}
	require.NoError(t, db.Create(&bet).Error)
}

func TestBuildBettingTotals(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "totals")

	now := time.Now()
	old := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC).AddDate(0, -2, 0)

	seedBet(t, db, user.ID, old, models.BetWon, func(b *models.Bet) { b.Points = 30 })
	seedBet(t, db, user.ID, old.Add(time.Hour), models.BetLost)
	seedBet(t, db, user.ID, now.Add(-time.Hour), models.BetWon, func(b *models.Bet) {
		b.Points = 50
		b.IsPerfect = true
	})
	seedBet(t, db, user.ID, now, models.BetPartialWin, func(b *models.Bet) { b.Points = 10 })

	stats, err := svc.stats.Build(user.ID)
	require.NoError(t, err)

	require.Equal(t, 4, stats.TotalBets)
	require.Equal(t, 2, stats.TotalWins)
	require.Equal(t, 1, stats.PartialWins)
	require.Equal(t, 1, stats.PerfectBets)
	require.Equal(t, 90, stats.TotalPoints)
	require.Equal(t, 50.0, stats.WinRate)

	require.Equal(t, 2, stats.MonthlyBets)
	require.Equal(t, 1, stats.MonthlyWins)
	require.Equal(t, 60, stats.MonthlyPoints)
	require.Equal(t, 1, stats.MonthlyPerfectBets)
	require.Equal(t, 50.0, stats.MonthlyWinRate)

	require.Equal(t, 2, stats.RollingBets)
	require.Equal(t, 1, stats.RollingWins)
}

func TestBuildComebackAndHighOddsWins(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "scanner")

	base := time.Now().AddDate(0, 0, -10)
	seq := []struct {
		status string
		odds   float64
	}{
		{models.BetLost, 0},
		{models.BetLost, 0},
		{models.BetLost, 0},
		{models.BetWon, 6.5}, // comeback and high odds
		{models.BetLost, 0},
		{models.BetLost, 0},
		{models.BetPartialWin, 0}, // partial breaks the loss run
		{models.BetLost, 0},
		{models.BetWon, 2.0}, // only one loss before it
	}
	for i, s := range seq {
		entry := s
		seedBet(t, db, user.ID, base.Add(time.Duration(i)*time.Hour), entry.status, func(b *models.Bet) {
			b.Odds = entry.odds
		})
	}

	stats, err := svc.stats.Build(user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stats.ComebackWins)
	require.Equal(t, 1, stats.HighOddsWins)
}

func TestBuildConsecutiveBoostMonths(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "booster")

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC)

	seedBet(t, db, user.ID, monthStart.AddDate(0, -2, 0), models.BetLost, func(b *models.Bet) { b.IsBoosted = true })
	seedBet(t, db, user.ID, monthStart.AddDate(0, -1, 0), models.BetLost, func(b *models.Bet) { b.IsBoosted = true })
	seedBet(t, db, user.ID, monthStart, models.BetLost, func(b *models.Bet) { b.IsBoosted = true })

	stats, err := svc.stats.Build(user.ID)
	require.NoError(t, err)
	require.Equal(t, 3, stats.BoostsUsed)
	require.Equal(t, 3, stats.ConsecutiveBoostMonths)
}

func TestBuildBoostRunToleratesQuietCurrentMonth(t *testing.T) {
	// No boost yet this month: the run is counted from the previous month.
	boosts := map[string]bool{}
	now := time.Now()
	cursor := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC)
	boosts[cursor.AddDate(0, -1, 0).Format("2006-01")] = true
	boosts[cursor.AddDate(0, -2, 0).Format("2006-01")] = true

	require.Equal(t, 2, trailingBoostRun(boosts, now))
}

func TestBoostMonthsBucketInUTC(t *testing.T) {
	// A bet stamped 00:30 on July 1st in CEST is still June in UTC; the
	// month run must not split on the server's local zone.
	now := time.Date(2025, time.July, 15, 12, 0, 0, 0, time.UTC)
	bets := []models.Bet{
		{CreatedAt: time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC), Status: models.BetLost, IsBoosted: true},
		{CreatedAt: time.Date(2025, time.July, 1, 0, 30, 0, 0, time.FixedZone("CEST", 2*3600)), Status: models.BetLost, IsBoosted: true},
	}

	stats := &UserStats{}
	(&StatsService{}).foldBets(stats, bets, now)
	require.Equal(t, 2, stats.ConsecutiveBoostMonths)
}

func TestBuildRankings(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "ranked")

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}

	require.NoError(t, db.Create(&models.MonthlyRanking{UserID: user.ID, Year: prevYear, Month: prevMonth, Rank: 1}).Error)
	require.NoError(t, db.Create(&models.MonthlyRanking{UserID: user.ID, Year: year, Month: month, Rank: 1}).Error)

	stats, err := svc.stats.Build(user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stats.CurrentRank)
	require.Equal(t, 1, stats.BestRank)
	require.Equal(t, 2, stats.ConsecutiveFirstPlaces)
}

func TestBuildRankingRunBreaksOnNonFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "dethroned")

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}

	require.NoError(t, db.Create(&models.MonthlyRanking{UserID: user.ID, Year: prevYear, Month: prevMonth, Rank: 1}).Error)
	require.NoError(t, db.Create(&models.MonthlyRanking{UserID: user.ID, Year: year, Month: month, Rank: 4}).Error)

	stats, err := svc.stats.Build(user.ID)
	require.NoError(t, err)
	require.Equal(t, 4, stats.CurrentRank)
	require.Equal(t, 1, stats.BestRank)
	require.Equal(t, 0, stats.ConsecutiveFirstPlaces)
}

func TestBuildCompetitorSnapshot(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)

	competitor := models.Competitor{
		Name:            "Night Fury",
		CareerWins:      12,
		RaceCount:       40,
		SkillMean:       30,
		SkillSigma:      5,
		RecentAvgFinish: 2.4,
	}
	require.NoError(t, db.Create(&competitor).Error)

	user := newTestUser(t, db, "pilot")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("competitor_id", competitor.ID).Error)

	stats, err := svc.stats.Build(user.ID)
	require.NoError(t, err)
	require.True(t, stats.IsCompetitor)
	require.Equal(t, 12, stats.CareerWins)
	require.Equal(t, 40, stats.RaceCount)
	require.Equal(t, 20.0, stats.Rating) // mean - 2*sigma
	require.Equal(t, 2.4, stats.RecentAvgFinish)
}

func TestBuildUnknownUserIsError(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)

	_, err := svc.stats.Build(9999)
	require.Error(t, err)
}
