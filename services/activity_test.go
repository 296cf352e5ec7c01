// services/activity_test.go
package services

import (
	"testing"
	"time"

	"paddock/models"

	"github.com/stretchr/testify/require"
)

func TestBetStatus(t *testing.T) {
	require.Equal(t, models.BetWon, betStatus(3, 3))
	require.Equal(t, models.BetPartialWin, betStatus(2, 3))
	require.Equal(t, models.BetLost, betStatus(1, 3))
	require.Equal(t, models.BetLost, betStatus(0, 3))
}

func TestBetFinalizedRunsFullPipeline(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "pipeline")

	seedAchievement(t, db, models.Achievement{
		Key: "first_bet", Name: "First Bet", Description: "Place a bet",
		Category: "milestones", Rarity: models.RarityCommon, Domain: models.DomainBetting,
		Metric: MetricTotalBets, Operator: models.OpGTE, Threshold: 1, XPReward: 10,
	})

	unlocked, err := svc.activity.BetFinalized(BetResult{
		UserID:       user.ID,
		PointsEarned: 60,
		CorrectCount: 3,
		TotalCount:   3,
		IsPerfect:    true,
		Odds:         3.2,
	})
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	require.Equal(t, "first_bet", unlocked[0].Key)

	var bet models.Bet
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&bet).Error)
	require.Equal(t, models.BetWon, bet.Status)
	require.True(t, bet.IsPerfect)
	require.NotNil(t, bet.SettledAt)

	streak, err := svc.streaks.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, streak.CurrentLifetimeStreak)
	require.Equal(t, 1, streak.CurrentWinStreak)

	// Win XP + perfect XP + the unlock reward, no level crossed.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, 85, reloaded.TotalXP)
	require.Equal(t, 1, reloaded.Level)
	require.Equal(t, 1, reloaded.AchievementCount)
}

func TestBetFinalizedValidatesPayload(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "validator")

	_, err := svc.activity.BetFinalized(BetResult{CorrectCount: 3, TotalCount: 3})
	require.Error(t, err)

	_, err = svc.activity.BetFinalized(BetResult{UserID: user.ID, CorrectCount: 4, TotalCount: 3})
	require.Error(t, err)

	_, err = svc.activity.BetFinalized(BetResult{UserID: 9999, CorrectCount: 3, TotalCount: 3})
	require.Error(t, err)
}

func TestRaceRecordedAwardsLinkedUsers(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)

	competitor := models.Competitor{Name: "Red Five", RaceCount: 1, CareerWins: 1}
	require.NoError(t, db.Create(&competitor).Error)
	unlinked := models.Competitor{Name: "Ghost Rider"}
	require.NoError(t, db.Create(&unlinked).Error)

	pilot := newTestUser(t, db, "pilot")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", pilot.ID).
		Update("competitor_id", competitor.ID).Error)

	seedAchievement(t, db, models.Achievement{
		Key: "track_debut", Name: "Track Debut", Description: "Run a race",
		Category: "racing", Rarity: models.RarityCommon, Domain: models.DomainRacing,
		Metric: MetricRaceCount, Operator: models.OpGTE, Threshold: 1, XPReward: 10,
	})

	err := svc.activity.RaceRecorded("race-42", []RaceEntry{
		{CompetitorID: competitor.ID, FinishRank: 1},
		{CompetitorID: unlinked.ID, FinishRank: 2},
	})
	require.NoError(t, err)

	var results int64
	require.NoError(t, db.Model(&models.RaceResult{}).Where("race_id = ?", "race-42").Count(&results).Error)
	require.Equal(t, int64(2), results)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, pilot.ID).Error)
	require.Equal(t, 20, reloaded.TotalXP) // race XP + unlock reward
	require.Equal(t, 1, reloaded.AchievementCount)
}

func TestRaceRecordedValidates(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)

	require.Error(t, svc.activity.RaceRecorded("", []RaceEntry{{CompetitorID: 1, FinishRank: 1}}))
	require.Error(t, svc.activity.RaceRecorded("race-1", nil))
}

func TestNextRunTime(t *testing.T) {
	loc := time.UTC
	morning := time.Date(2025, time.June, 10, 1, 30, 0, 0, loc)
	require.Equal(t, time.Date(2025, time.June, 10, 3, 0, 0, 0, loc), nextRunTime(morning, 3))

	afternoon := time.Date(2025, time.June, 10, 15, 0, 0, 0, loc)
	require.Equal(t, time.Date(2025, time.June, 11, 3, 0, 0, 0, loc), nextRunTime(afternoon, 3))

	exact := time.Date(2025, time.June, 10, 3, 0, 0, 0, loc)
	require.Equal(t, time.Date(2025, time.June, 11, 3, 0, 0, 0, loc), nextRunTime(exact, 3))
}
