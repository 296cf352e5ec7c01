// models/achievement.go
package models

import "time"

// Rarity drives the XP reward granted on unlock.
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Domain gates which users an achievement is evaluated for. Racing
// achievements are only checked for users linked to a competitor.
const (
	DomainBetting = "betting"
	DomainRacing  = "racing"
)

// Condition scope: lifetime metrics or the current calendar month.
const (
	ScopeLifetime = "lifetime"
	ScopeMonthly  = "monthly"
)

// Condition operators.
const (
	OpGTE = "gte"
	OpLTE = "lte"
	OpEQ  = "eq"
)

// Achievement is an immutable catalog entry. Rows are only created or
// updated by the seeder (upsert by Key), never at runtime.
type Achievement struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Key         string `gorm:"not null;uniqueIndex" json:"key"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"not null" json:"description"`
	Category    string `gorm:"not null;index" json:"category"`
	Rarity      string `gorm:"not null;default:'common'" json:"rarity"`
	Icon        string `json:"icon"`
	Domain      string `gorm:"not null;default:'betting';index" json:"domain"`

	// Rewards
	XPReward      int    `gorm:"default:0" json:"xp_reward"`
	UnlockedTitle string `json:"unlocked_title,omitempty"`

	// Condition
	Metric         string  `gorm:"not null" json:"metric"`
	Operator       string  `gorm:"not null;default:'gte'" json:"operator"`
	Threshold      float64 `gorm:"not null" json:"threshold"`
	Scope          string  `gorm:"default:'lifetime'" json:"scope"`
	MinCountMetric string  `json:"min_count_metric,omitempty"`
	MinCountValue  float64 `json:"min_count_value,omitempty"`

	// Chain ordering. Tier N's prerequisite is tier N-1's key.
	PrerequisiteKey string `json:"prerequisite_key,omitempty"`
	ChainName       string `gorm:"index" json:"chain_name,omitempty"`
	TierLevel       int    `gorm:"default:0" json:"tier_level"`

	// Temporary achievements are re-derived on a schedule and revocable.
	IsTemporary bool `gorm:"default:false" json:"is_temporary"`
	CanBeLost   bool `gorm:"default:false" json:"can_be_lost"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserAchievement is the unlock record for one (user, achievement) pair.
// Revoked records are never deleted, only stamped, so TimesEarned and the
// unique identity used for idempotency survive re-earning.
type UserAchievement struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	UserID        uint `gorm:"not null;index;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint `gorm:"not null;index;uniqueIndex:idx_user_achievement" json:"achievement_id"`

	UnlockedAt       time.Time  `json:"unlocked_at"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
	RevocationReason string     `json:"revocation_reason,omitempty"`
	TimesEarned      int        `gorm:"default:1" json:"times_earned"`
	Progress         float64    `gorm:"default:0" json:"progress"`
	NotificationSent bool       `gorm:"default:false" json:"notification_sent"`

	// Relationships
	User        User        `gorm:"foreignKey:UserID" json:"-"`
	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

// Active reports whether the record currently counts as unlocked.
func (ua *UserAchievement) Active() bool {
	return ua.RevokedAt == nil
}
