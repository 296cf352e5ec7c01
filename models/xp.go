// models/xp.go
package models

import "time"

// XP sources. The level-up bonus carries its own tag so adding the bonus can
// never trigger a second bonus.
const (
	XPSourceAchievement  = "achievement"
	XPSourceBetWon       = "bet_won"
	XPSourcePerfectBet   = "perfect_bet"
	XPSourceRaceRecorded = "race_recorded"
	XPSourceLevelUpBonus = "level_up_bonus"
	XPSourceAdminGrant   = "admin_grant"
)

// XPTransaction is an append-only ledger entry. A user's total XP is the sum
// of their entries (denormalized onto users.total_xp for fast reads).
type XPTransaction struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"-"`

	Amount          int    `gorm:"not null" json:"amount"`
	Source          string `gorm:"not null;size:50;index" json:"source"`
	RelatedEntityID *uint  `json:"related_entity_id,omitempty"`
	Description     string `json:"description,omitempty"`

	EarnedAt time.Time `gorm:"index" json:"earned_at"`
}

// Level reward types.
const (
	RewardTitle        = "title"
	RewardBadge        = "badge"
	RewardXPMultiplier = "xp_multiplier"
)

// LevelReward maps a level to a static reward. Read-only at runtime,
// seeded like the achievement catalog.
type LevelReward struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Level      int     `gorm:"not null;uniqueIndex" json:"level"`
	RewardType string  `gorm:"not null;size:30" json:"reward_type"`
	Value      string  `json:"value,omitempty"`
	Multiplier float64 `gorm:"default:1" json:"multiplier,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (XPTransaction) TableName() string {
	return "xp_transactions"
}

func (LevelReward) TableName() string {
	return "level_rewards"
}
