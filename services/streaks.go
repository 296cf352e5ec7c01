// services/streaks.go - Weekly participation and win streak tracker
package services

import (
	"fmt"
	"time"

	"paddock/models"

	"gorm.io/gorm"
)

type StreakService struct {
	db  *gorm.DB
	bus *EventBus
}

func NewStreakService(db *gorm.DB, bus *EventBus) *StreakService {
	return &StreakService{db: db, bus: bus}
}

// RecordParticipation applies one qualifying activity to the weekly
// participation streak. The (year, week) anchor dedups repeated activity
// within one ISO week; a gap of exactly one week extends the streak, any
// other gap resets it.
func (s *StreakService) RecordParticipation(userID uint, at time.Time) error {
	streak, err := s.getOrCreate(userID)
	if err != nil {
		return err
	}

	year, week := at.ISOWeek()
	previousMonthly := streak.CurrentMonthlyStreak

	switch {
	case streak.LastBetYear == year && streak.LastBetWeek == week:
		// Already counted this week.
		return nil

	case streak.LastBetYear == 0, !consecutiveWeeks(streak.LastBetYear, streak.LastBetWeek, year, week):
		now := at
		streak.CurrentMonthlyStreak = 1
		streak.CurrentLifetimeStreak = 1
		streak.MonthlyStreakStart = &now
		streak.LifetimeStreakStart = &now

	default:
		streak.CurrentMonthlyStreak++
		streak.CurrentLifetimeStreak++
		if streak.MonthlyStreakStart == nil {
			start := at
			streak.MonthlyStreakStart = &start
		}
	}

	streak.LastBetYear = year
	streak.LastBetWeek = week

	if streak.CurrentMonthlyStreak > previousMonthly {
		s.bus.Publish(Event{
			Type:   EventStreakRecord,
			UserID: userID,
			Data: map[string]any{
				"kind":            StreakKindMonthly,
				"new_record":      streak.CurrentMonthlyStreak,
				"previous_record": previousMonthly,
			},
		})
	}

	if streak.CurrentLifetimeStreak > streak.LongestLifetimeStreak {
		previous := streak.LongestLifetimeStreak
		streak.LongestLifetimeStreak = streak.CurrentLifetimeStreak
		s.bus.Publish(Event{
			Type:   EventStreakRecord,
			UserID: userID,
			Data: map[string]any{
				"kind":            StreakKindLifetime,
				"new_record":      streak.LongestLifetimeStreak,
				"previous_record": previous,
			},
		})
	}

	return s.db.Save(streak).Error
}

// RecordWeekOutcome applies one week's win/loss result to the win streak.
// The win track keeps its own anchor so redelivered settlement events for a
// week already processed are no-ops.
func (s *StreakService) RecordWeekOutcome(userID uint, at time.Time, won bool) error {
	streak, err := s.getOrCreate(userID)
	if err != nil {
		return err
	}

	year, week := at.ISOWeek()
	if streak.LastWinYear == year && streak.LastWinWeek == week {
		return nil
	}

	if !won {
		streak.CurrentWinStreak = 0
	} else if streak.LastWinYear != 0 && consecutiveWeeks(streak.LastWinYear, streak.LastWinWeek, year, week) {
		streak.CurrentWinStreak++
	} else {
		streak.CurrentWinStreak = 1
	}

	streak.LastWinYear = year
	streak.LastWinWeek = week

	if streak.CurrentWinStreak > streak.BestWinStreak {
		previous := streak.BestWinStreak
		streak.BestWinStreak = streak.CurrentWinStreak
		s.bus.Publish(Event{
			Type:   EventStreakRecord,
			UserID: userID,
			Data: map[string]any{
				"kind":            StreakKindWin,
				"new_record":      streak.BestWinStreak,
				"previous_record": previous,
			},
		})
	}

	return s.db.Save(streak).Error
}

// ResetMonthlyCounters zeroes every user's monthly participation counter.
// Invoked by the monthly sweep at the calendar boundary.
func (s *StreakService) ResetMonthlyCounters() error {
	err := s.db.Model(&models.UserStreak{}).
		Where("current_monthly_streak > 0 OR monthly_streak_start IS NOT NULL").
		Updates(map[string]interface{}{
			"current_monthly_streak": 0,
			"monthly_streak_start":   nil,
		}).Error
	if err != nil {
		return fmt.Errorf("reset monthly streaks: %w", err)
	}
	return nil
}

// Get returns the user's streak record, zero-valued when none exists yet.
func (s *StreakService) Get(userID uint) (*models.UserStreak, error) {
	var streak models.UserStreak
	if err := s.db.Where("user_id = ?", userID).First(&streak).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &models.UserStreak{UserID: userID}, nil
		}
		return nil, err
	}
	return &streak, nil
}

func (s *StreakService) getOrCreate(userID uint) (*models.UserStreak, error) {
	var streak models.UserStreak
	err := s.db.Where(models.UserStreak{UserID: userID}).FirstOrCreate(&streak).Error
	if err != nil {
		return nil, fmt.Errorf("streak record for user %d: %w", userID, err)
	}
	return &streak, nil
}

// consecutiveWeeks reports whether (y2, w2) is exactly one ISO week after
// (y1, w1), including the year boundary where the prior week is the last
// ISO week (52 or 53) of its year and the new week is week 1.
func consecutiveWeeks(y1, w1, y2, w2 int) bool {
	if y1 == y2 && w2 == w1+1 {
		return true
	}
	return y2 == y1+1 && w2 == 1 && w1 == lastISOWeek(y1)
}

// lastISOWeek returns 52 or 53 for the given ISO year. December 28 always
// falls in the year's final ISO week.
func lastISOWeek(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}
