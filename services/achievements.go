// services/achievements.go - Achievement unlock engine
package services

import (
	"fmt"
	"log"
	"time"

	"paddock/models"

	"gorm.io/gorm"
)

type AchievementService struct {
	db    *gorm.DB
	stats *StatsService
	xp    *XPService
	bus   *EventBus
}

func NewAchievementService(db *gorm.DB, stats *StatsService, xp *XPService, bus *EventBus) *AchievementService {
	return &AchievementService{db: db, stats: stats, xp: xp, bus: bus}
}

// AchievementStatus is one catalog entry annotated with a user's unlock
// state for the query surface.
type AchievementStatus struct {
	models.Achievement
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
	TimesEarned int        `json:"times_earned,omitempty"`
	Progress    float64    `json:"progress"`
}

// CheckUser evaluates every permanent achievement the user has not yet
// unlocked and unlocks the ones whose condition the current snapshot
// satisfies. Temporary achievements belong to the temporary controller and
// are never written here.
func (s *AchievementService) CheckUser(userID uint) ([]models.Achievement, error) {
	stats, err := s.stats.Build(userID)
	if err != nil {
		return nil, err
	}

	var catalog []models.Achievement
	if err := s.db.Where("is_temporary = ?", false).
		Order("chain_name, tier_level").Find(&catalog).Error; err != nil {
		return nil, fmt.Errorf("check achievements: catalog: %w", err)
	}

	unlockedKeys, err := s.activeKeys(userID)
	if err != nil {
		return nil, err
	}

	var unlocked []models.Achievement
	for i := range catalog {
		def := &catalog[i]
		if unlockedKeys[def.Key] {
			continue
		}
		if def.Domain == models.DomainRacing && !stats.IsCompetitor {
			continue
		}
		// Chain ordering: tier N's prerequisite is tier N-1's key, so an
		// unmet prerequisite keeps later tiers locked even when their raw
		// condition already holds.
		if def.PrerequisiteKey != "" && !unlockedKeys[def.PrerequisiteKey] {
			continue
		}
		if !EvaluateCondition(def, stats) {
			continue
		}

		fresh, err := s.unlock(userID, def)
		if err != nil {
			log.Printf("Failed to unlock %s for user %d: %v", def.Key, userID, err)
			continue
		}
		if fresh {
			unlockedKeys[def.Key] = true
			unlocked = append(unlocked, *def)
		}
	}

	return unlocked, nil
}

// activeKeys returns the set of non-revoked achievement keys for a user.
func (s *AchievementService) activeKeys(userID uint) (map[string]bool, error) {
	var records []models.UserAchievement
	if err := s.db.Preload("Achievement").
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("check achievements: records: %w", err)
	}

	keys := make(map[string]bool, len(records))
	for _, rec := range records {
		keys[rec.Achievement.Key] = true
	}
	return keys, nil
}

// unlock persists the record, bumps the user's denormalized counters, awards
// rarity XP and emits the unlock event. The unique (user, achievement) index
// makes duplicate event delivery a no-op; the fresh flag is false when the
// record already existed.
func (s *AchievementService) unlock(userID uint, def *models.Achievement) (bool, error) {
	now := time.Now()
	record := models.UserAchievement{
		UserID:        userID,
		AchievementID: def.ID,
		UnlockedAt:    now,
		TimesEarned:   1,
		Progress:      100,
	}

	if err := s.db.Create(&record).Error; err != nil {
		// Unique-constraint violation from a concurrent duplicate event.
		var existing models.UserAchievement
		if lookupErr := s.db.Where("user_id = ? AND achievement_id = ?", userID, def.ID).
			First(&existing).Error; lookupErr == nil {
			return false, nil
		}
		return false, err
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"achievement_count":   gorm.Expr("achievement_count + 1"),
			"last_achievement_at": now,
		}).Error; err != nil {
		log.Printf("Failed to bump achievement counter for user %d: %v", userID, err)
	}

	reward := def.XPReward
	if reward == 0 {
		reward = XPForRarity(def.Rarity)
	}
	desc := fmt.Sprintf("Achievement unlocked: %s", def.Name)
	if err := s.xp.AddXP(userID, reward, models.XPSourceAchievement, &def.ID, desc); err != nil {
		log.Printf("Failed to award XP for %s to user %d: %v", def.Key, userID, err)
	}

	s.bus.Publish(Event{
		Type:   EventAchievementUnlocked,
		UserID: userID,
		Data: map[string]any{
			"achievement_id": def.ID,
			"key":            def.Key,
			"name":           def.Name,
			"xp_reward":      reward,
			"unlocked_title": def.UnlockedTitle,
			"unlocked_at":    now,
		},
	})

	return true, nil
}

// ListWithStatus returns the catalog, optionally filtered, annotated with
// the user's unlock state and progress. Progress for a locked achievement is
// the linear approximation; an unlocked one reads 100.
func (s *AchievementService) ListWithStatus(userID uint, category, rarity, domain string) ([]AchievementStatus, error) {
	stats, err := s.stats.Build(userID)
	if err != nil {
		return nil, err
	}

	query := s.db.Order("domain, category, chain_name, tier_level")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if rarity != "" {
		query = query.Where("rarity = ?", rarity)
	}
	if domain != "" {
		query = query.Where("domain = ?", domain)
	}

	var catalog []models.Achievement
	if err := query.Find(&catalog).Error; err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}

	var records []models.UserAchievement
	if err := s.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list achievements: records: %w", err)
	}
	recordByID := make(map[uint]models.UserAchievement, len(records))
	for _, rec := range records {
		recordByID[rec.AchievementID] = rec
	}

	statuses := make([]AchievementStatus, 0, len(catalog))
	for i := range catalog {
		def := catalog[i]
		status := AchievementStatus{Achievement: def}

		if rec, ok := recordByID[def.ID]; ok && rec.Active() {
			status.Unlocked = true
			unlockedAt := rec.UnlockedAt
			status.UnlockedAt = &unlockedAt
			status.TimesEarned = rec.TimesEarned
			status.Progress = 100
		} else {
			status.Progress = ConditionProgress(&def, stats)
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

// Unlocked returns the user's active unlock records, newest first.
func (s *AchievementService) Unlocked(userID uint) ([]models.UserAchievement, error) {
	var records []models.UserAchievement
	err := s.db.Preload("Achievement").
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Order("unlocked_at DESC").
		Find(&records).Error
	return records, err
}

// EquipTitle sets the user's displayed title from an unlocked achievement's
// reward. An empty key unequips.
func (s *AchievementService) EquipTitle(userID uint, key string) error {
	if key == "" {
		return s.db.Model(&models.User{}).Where("id = ?", userID).
			Update("equipped_title", nil).Error
	}

	var def models.Achievement
	if err := s.db.Where("key = ?", key).First(&def).Error; err != nil {
		return fmt.Errorf("equip title: achievement %s: %w", key, err)
	}
	if def.UnlockedTitle == "" {
		return fmt.Errorf("achievement %s has no title reward", key)
	}

	var record models.UserAchievement
	if err := s.db.Where("user_id = ? AND achievement_id = ? AND revoked_at IS NULL", userID, def.ID).
		First(&record).Error; err != nil {
		return fmt.Errorf("title %s is not unlocked: %w", key, err)
	}

	return s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("equipped_title", def.UnlockedTitle).Error
}

// MarkNotified flags a record once its unlock event reached the user.
func (s *AchievementService) MarkNotified(userID, achievementID uint) error {
	return s.db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Update("notification_sent", true).Error
}
