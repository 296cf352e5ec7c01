// models/streak.go
package models

import "time"

// UserStreak is the single per-user streak record, mutated only by the
// streak tracker. The week/year anchors double as dedup guards: a given
// ISO week is only ever applied once per track.
type UserStreak struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"not null;uniqueIndex" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"-"`

	// Weekly participation
	CurrentMonthlyStreak  int        `gorm:"default:0" json:"current_monthly_streak"`
	CurrentLifetimeStreak int        `gorm:"default:0" json:"current_lifetime_streak"`
	LongestLifetimeStreak int        `gorm:"default:0" json:"longest_lifetime_streak"`
	LastBetWeek           int        `gorm:"default:0" json:"last_bet_week"`
	LastBetYear           int        `gorm:"default:0" json:"last_bet_year"`
	MonthlyStreakStart    *time.Time `json:"monthly_streak_start,omitempty"`
	LifetimeStreakStart   *time.Time `json:"lifetime_streak_start,omitempty"`

	// Win streak, with its own anchor
	CurrentWinStreak int `gorm:"default:0" json:"current_win_streak"`
	BestWinStreak    int `gorm:"default:0" json:"best_win_streak"`
	LastWinWeek      int `gorm:"default:0" json:"last_win_week"`
	LastWinYear      int `gorm:"default:0" json:"last_win_year"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserStreak) TableName() string {
	return "user_streaks"
}
