// services/activity.go - Inbound activity pipeline
package services

import (
	"fmt"
	"log"
	"time"

	"paddock/models"

	"gorm.io/gorm"
)

// XP granted for the activity itself, before any achievement rewards.
const (
	xpPerWonBet     = 25
	xpPerPerfectBet = 50
	xpPerRaceRun    = 10
)

// ActivityService runs one user's full pipeline for each inbound activity
// event: persist the settled activity, update streaks, evaluate permanent
// achievements, recompute temporary ones. Callers are expected to serialize
// events per user; redelivery is made safe by the unlock records' unique
// index and the streak week anchors, not by locking.
type ActivityService struct {
	db           *gorm.DB
	achievements *AchievementService
	temporary    *TemporaryAchievementService
	streaks      *StreakService
	xp           *XPService
}

func NewActivityService(db *gorm.DB, achievements *AchievementService, temporary *TemporaryAchievementService, streaks *StreakService, xp *XPService) *ActivityService {
	return &ActivityService{
		db:           db,
		achievements: achievements,
		temporary:    temporary,
		streaks:      streaks,
		xp:           xp,
	}
}

// BetResult is the "activity finalized" payload from the betting pipeline.
type BetResult struct {
	UserID       uint    `json:"user_id"`
	PointsEarned int     `json:"points_earned"`
	CorrectCount int     `json:"correct_count"`
	TotalCount   int     `json:"total_count"`
	IsPerfect    bool    `json:"is_perfect"`
	IsBoosted    bool    `json:"is_boosted"`
	Odds         float64 `json:"odds"`
}

// BetFinalized records the settled bet and runs the user's progression
// pipeline. Returns the achievements unlocked by this activity.
func (s *ActivityService) BetFinalized(result BetResult) ([]models.Achievement, error) {
	if result.UserID == 0 {
		return nil, fmt.Errorf("bet finalized: missing user id")
	}
	if result.TotalCount <= 0 || result.CorrectCount < 0 || result.CorrectCount > result.TotalCount {
		return nil, fmt.Errorf("bet finalized: invalid pick counts %d/%d", result.CorrectCount, result.TotalCount)
	}

	var user models.User
	if err := s.db.First(&user, result.UserID).Error; err != nil {
		return nil, fmt.Errorf("bet finalized: user %d: %w", result.UserID, err)
	}

	now := time.Now()
	won := result.CorrectCount == result.TotalCount
	bet := models.Bet{
		UserID:       result.UserID,
		Status:       betStatus(result.CorrectCount, result.TotalCount),
		Points:       result.PointsEarned,
		CorrectCount: result.CorrectCount,
		TotalCount:   result.TotalCount,
		IsPerfect:    result.IsPerfect,
		IsBoosted:    result.IsBoosted,
		Odds:         result.Odds,
		SettledAt:    &now,
	}
	if err := s.db.Create(&bet).Error; err != nil {
		return nil, fmt.Errorf("bet finalized: record bet: %w", err)
	}

	if err := s.streaks.RecordParticipation(result.UserID, now); err != nil {
		log.Printf("Failed to record participation for user %d: %v", result.UserID, err)
	}
	if err := s.streaks.RecordWeekOutcome(result.UserID, now, won); err != nil {
		log.Printf("Failed to record win streak for user %d: %v", result.UserID, err)
	}

	if won {
		if err := s.xp.AddXP(result.UserID, xpPerWonBet, models.XPSourceBetWon, &bet.ID, "Winning bet"); err != nil {
			log.Printf("Failed to award win XP to user %d: %v", result.UserID, err)
		}
	}
	if result.IsPerfect {
		if err := s.xp.AddXP(result.UserID, xpPerPerfectBet, models.XPSourcePerfectBet, &bet.ID, "Perfect bet"); err != nil {
			log.Printf("Failed to award perfect XP to user %d: %v", result.UserID, err)
		}
	}

	unlocked, err := s.achievements.CheckUser(result.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.temporary.RecomputeUser(result.UserID); err != nil {
		log.Printf("Failed to recompute temporary achievements for user %d: %v", result.UserID, err)
	}

	return unlocked, nil
}

// RaceEntry is one competitor's line in a "race recorded" event.
type RaceEntry struct {
	CompetitorID uint `json:"competitor_id"`
	FinishRank   int  `json:"finish_rank"`
}

// RaceRecorded stores the race results and evaluates racing achievements
// for every user linked to a participating competitor. One user's failure
// never blocks the rest.
func (s *ActivityService) RaceRecorded(raceID string, entries []RaceEntry) error {
	if raceID == "" {
		return fmt.Errorf("race recorded: missing race id")
	}
	if len(entries) == 0 {
		return fmt.Errorf("race recorded: no results")
	}

	now := time.Now()
	for _, entry := range entries {
		result := models.RaceResult{
			RaceID:       raceID,
			CompetitorID: entry.CompetitorID,
			FinishRank:   entry.FinishRank,
			RecordedAt:   now,
		}
		if err := s.db.Create(&result).Error; err != nil {
			return fmt.Errorf("race recorded: result for competitor %d: %w", entry.CompetitorID, err)
		}
	}

	for _, entry := range entries {
		var user models.User
		if err := s.db.Where("competitor_id = ?", entry.CompetitorID).First(&user).Error; err != nil {
			continue // competitor without a linked player
		}

		if err := s.xp.AddXP(user.ID, xpPerRaceRun, models.XPSourceRaceRecorded, nil, "Race run"); err != nil {
			log.Printf("Failed to award race XP to user %d: %v", user.ID, err)
		}
		if _, err := s.achievements.CheckUser(user.ID); err != nil {
			log.Printf("Failed to evaluate achievements for user %d: %v", user.ID, err)
		}
	}

	return nil
}

func betStatus(correct, total int) string {
	switch {
	case correct == total:
		return models.BetWon
	case correct == total-1:
		return models.BetPartialWin
	default:
		return models.BetLost
	}
}
