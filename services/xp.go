// services/xp.go - XP ledger, levels and level rewards
package services

import (
	"fmt"
	"time"

	"paddock/models"

	"gorm.io/gorm"
)

const (
	// XPLevelBase is the step of the triangular level curve:
	// total XP to reach level N is XPLevelBase * (N-1) * N / 2.
	XPLevelBase = 100

	// LevelUpBonusXP is granted once per level gained from a non-bonus
	// source.
	LevelUpBonusXP = 100
)

type XPService struct {
	db  *gorm.DB
	bus *EventBus
}

func NewXPService(db *gorm.DB, bus *EventBus) *XPService {
	return &XPService{db: db, bus: bus}
}

// XPForLevel returns the total XP required to reach the given level.
// Level 1 requires 0 XP.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return XPLevelBase * (level - 1) * level / 2
}

// LevelForXP returns the level a total XP amount corresponds to.
func LevelForXP(totalXP int) int {
	level := 1
	for totalXP >= XPForLevel(level+1) {
		level++
	}
	return level
}

// XPToNextLevel returns how much more XP is needed for the next level.
func XPToNextLevel(totalXP int) int {
	return XPForLevel(LevelForXP(totalXP)+1) - totalXP
}

// ProgressPercent returns progress through the current level, clamped to
// [0, 100]. A zero-width level span reads as 100.
func ProgressPercent(totalXP int) float64 {
	level := LevelForXP(totalXP)
	floor := XPForLevel(level)
	span := XPForLevel(level+1) - floor
	if span <= 0 {
		return 100
	}
	pct := float64(totalXP-floor) / float64(span) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// XPForRarity returns the XP reward for unlocking an achievement of the
// given rarity.
func XPForRarity(rarity string) int {
	switch rarity {
	case models.RarityLegendary:
		return 500
	case models.RarityEpic:
		return 250
	case models.RarityRare:
		return 100
	default:
		return 50
	}
}

// AddXP appends a ledger entry, updates the user's denormalized total and
// level, and emits a level-up event when the level increases. A level gained
// from any source except the level-up bonus itself grants a fixed bonus
// through a separately tagged entry, so the bonus can never cascade.
func (s *XPService) AddXP(userID uint, amount int, source string, relatedID *uint, description string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return fmt.Errorf("add xp: user %d: %w", userID, err)
	}

	if source != models.XPSourceLevelUpBonus && amount > 0 {
		if mult := s.ActiveMultiplier(user.Level); mult > 1 {
			amount = int(float64(amount) * mult)
		}
	}

	entry := models.XPTransaction{
		UserID:          userID,
		Amount:          amount,
		Source:          source,
		RelatedEntityID: relatedID,
		Description:     description,
		EarnedAt:        time.Now(),
	}

	previousLevel := user.Level
	user.TotalXP += amount
	user.Level = LevelForXP(user.TotalXP)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{"total_xp": user.TotalXP, "level": user.Level}).Error
	})
	if err != nil {
		return fmt.Errorf("add xp: %w", err)
	}

	if user.Level > previousLevel {
		s.bus.Publish(Event{
			Type:   EventLevelUp,
			UserID: userID,
			Data: map[string]any{
				"previous_level": previousLevel,
				"new_level":      user.Level,
				"total_xp":       user.TotalXP,
			},
		})

		if source != models.XPSourceLevelUpBonus {
			desc := fmt.Sprintf("Reached level %d", user.Level)
			if err := s.AddXP(userID, LevelUpBonusXP, models.XPSourceLevelUpBonus, nil, desc); err != nil {
				return fmt.Errorf("level-up bonus: %w", err)
			}
		}
	}

	return nil
}

// ActiveMultiplier returns the highest XP multiplier unlocked at or below
// the given level, or 1 when none applies.
func (s *XPService) ActiveMultiplier(level int) float64 {
	var rewards []models.LevelReward
	if err := s.db.Where("reward_type = ? AND level <= ?", models.RewardXPMultiplier, level).
		Find(&rewards).Error; err != nil {
		return 1
	}

	mult := 1.0
	for _, r := range rewards {
		if r.Multiplier > mult {
			mult = r.Multiplier
		}
	}
	return mult
}

// History returns a page of the user's XP ledger, newest first.
func (s *XPService) History(userID uint, limit, offset int) ([]models.XPTransaction, error) {
	var entries []models.XPTransaction
	err := s.db.Where("user_id = ?", userID).
		Order("earned_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}

// UnlockedRewards returns the level rewards the user has reached.
func (s *XPService) UnlockedRewards(level int) ([]models.LevelReward, error) {
	var rewards []models.LevelReward
	err := s.db.Where("level <= ?", level).Order("level ASC").Find(&rewards).Error
	return rewards, err
}
