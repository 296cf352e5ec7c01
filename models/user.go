// models/user.go
package models

import (
	"time"
)

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string  `gorm:"not null" json:"-"`
	DisplayName string  `json:"display_name"`
	Avatar      string  `json:"avatar"`
	IsGuest     bool    `gorm:"default:false" json:"is_guest"`
	IsAdmin     bool    `gorm:"default:false" json:"is_admin"`
	IsBanned    bool    `gorm:"default:false" json:"is_banned"`

	// Progression (denormalized from the XP ledger and achievement records)
	Level             int        `gorm:"default:1" json:"level"`
	TotalXP           int        `gorm:"default:0" json:"total_xp"`
	AchievementCount  int        `gorm:"default:0" json:"achievement_count"`
	LastAchievementAt *time.Time `json:"last_achievement_at,omitempty"`
	EquippedTitle     *string    `json:"equipped_title,omitempty"`

	// Racing link. Users with a competitor profile are eligible for
	// racing-domain achievements.
	CompetitorID *uint       `gorm:"index" json:"competitor_id,omitempty"`
	Competitor   *Competitor `gorm:"foreignKey:CompetitorID" json:"competitor,omitempty"`

	// Timestamps
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    time.Time  `json:"last_login"`
	LastActivity *time.Time `json:"last_activity,omitempty"`

	// Relationships
	Achievements []UserAchievement `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
	Bets         []Bet             `gorm:"foreignKey:UserID" json:"bets,omitempty"`
}
