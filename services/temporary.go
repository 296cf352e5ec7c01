// services/temporary.go - Revocable achievement controller
package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"paddock/models"

	"gorm.io/gorm"
)

// Temporary achievement families. Each family is a set of mutually
// exclusive tiers; at most one tier per family is active per user.
const (
	FamilyRankMedal     = "rank_medal"
	FamilyForm          = "form"
	FamilyParticipation = "participation"
)

type TemporaryAchievementService struct {
	db    *gorm.DB
	stats *StatsService
	xp    *XPService
	bus   *EventBus
}

func NewTemporaryAchievementService(db *gorm.DB, stats *StatsService, xp *XPService, bus *EventBus) *TemporaryAchievementService {
	return &TemporaryAchievementService{db: db, stats: stats, xp: xp, bus: bus}
}

// RecomputeUser re-derives all three families for one user: the highest
// qualifying tier of each family is awarded (a no-op when already active)
// and every other tier of that family is revoked. Running it twice in a row
// changes nothing, so out-of-order daily and monthly sweeps are safe.
func (s *TemporaryAchievementService) RecomputeUser(userID uint) error {
	stats, err := s.stats.Build(userID)
	if err != nil {
		return err
	}

	var catalog []models.Achievement
	if err := s.db.Where("is_temporary = ?", true).Find(&catalog).Error; err != nil {
		return fmt.Errorf("recompute temporary: catalog: %w", err)
	}

	families := make(map[string][]models.Achievement)
	for _, def := range catalog {
		families[def.ChainName] = append(families[def.ChainName], def)
	}

	for name, tiers := range families {
		// Highest tier first.
		sort.Slice(tiers, func(i, j int) bool { return tiers[i].TierLevel > tiers[j].TierLevel })

		var target *models.Achievement
		for i := range tiers {
			if EvaluateCondition(&tiers[i], stats) {
				target = &tiers[i]
				break
			}
		}

		if err := s.applyFamily(userID, name, tiers, target); err != nil {
			return err
		}
	}

	return nil
}

// applyFamily awards the target tier (if any) and revokes every other
// currently active tier of the family.
func (s *TemporaryAchievementService) applyFamily(userID uint, family string, tiers []models.Achievement, target *models.Achievement) error {
	for i := range tiers {
		def := &tiers[i]
		if target != nil && def.ID == target.ID {
			if err := s.award(userID, def); err != nil {
				return fmt.Errorf("award %s: %w", def.Key, err)
			}
			continue
		}

		reason := fmt.Sprintf("No longer qualifies for %s", def.Name)
		if target != nil && target.TierLevel > def.TierLevel {
			reason = fmt.Sprintf("Superseded by %s", target.Name)
		}
		if err := s.revoke(userID, def, reason); err != nil {
			return fmt.Errorf("revoke %s: %w", def.Key, err)
		}
	}
	return nil
}

// award distinguishes first-time earn (new record) from re-earn (previously
// revoked record: revocation cleared, earn count bumped, unlock time
// refreshed). Both paths emit an unlock event; an already active record is
// left untouched.
func (s *TemporaryAchievementService) award(userID uint, def *models.Achievement) error {
	now := time.Now()

	var record models.UserAchievement
	err := s.db.Where("user_id = ? AND achievement_id = ?", userID, def.ID).First(&record).Error
	switch {
	case err == nil && record.Active():
		return nil

	case err == nil:
		// Re-earn.
		updates := map[string]interface{}{
			"revoked_at":        nil,
			"revocation_reason": "",
			"times_earned":      gorm.Expr("times_earned + 1"),
			"unlocked_at":       now,
			"notification_sent": false,
		}
		if err := s.db.Model(&record).Updates(updates).Error; err != nil {
			return err
		}

		// The revocation decremented the denormalized counter; restore it.
		if err := s.db.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{
				"achievement_count":   gorm.Expr("achievement_count + 1"),
				"last_achievement_at": now,
			}).Error; err != nil {
			log.Printf("Failed to bump achievement counter for user %d: %v", userID, err)
		}

	default:
		record = models.UserAchievement{
			UserID:        userID,
			AchievementID: def.ID,
			UnlockedAt:    now,
			TimesEarned:   1,
			Progress:      100,
		}
		if err := s.db.Create(&record).Error; err != nil {
			// Concurrent duplicate: the row exists now, nothing to do.
			var existing models.UserAchievement
			if lookupErr := s.db.Where("user_id = ? AND achievement_id = ?", userID, def.ID).
				First(&existing).Error; lookupErr == nil {
				return nil
			}
			return err
		}

		if err := s.db.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{
				"achievement_count":   gorm.Expr("achievement_count + 1"),
				"last_achievement_at": now,
			}).Error; err != nil {
			log.Printf("Failed to bump achievement counter for user %d: %v", userID, err)
		}

		// XP only on the first earn; a medal lost and regained is not an
		// income source.
		desc := fmt.Sprintf("Achievement unlocked: %s", def.Name)
		if err := s.xp.AddXP(userID, def.XPReward, models.XPSourceAchievement, &def.ID, desc); err != nil {
			log.Printf("Failed to award XP for %s to user %d: %v", def.Key, userID, err)
		}
	}

	s.bus.Publish(Event{
		Type:   EventAchievementUnlocked,
		UserID: userID,
		Data: map[string]any{
			"achievement_id": def.ID,
			"key":            def.Key,
			"name":           def.Name,
			"xp_reward":      def.XPReward,
			"unlocked_title": def.UnlockedTitle,
			"unlocked_at":    now,
		},
	})
	return nil
}

// revoke stamps an active record with the reason and emits a revoke event.
// Inactive or absent records are left alone.
func (s *TemporaryAchievementService) revoke(userID uint, def *models.Achievement, reason string) error {
	var record models.UserAchievement
	err := s.db.Where("user_id = ? AND achievement_id = ? AND revoked_at IS NULL", userID, def.ID).
		First(&record).Error
	if err != nil {
		return nil
	}

	now := time.Now()
	if err := s.db.Model(&record).Updates(map[string]interface{}{
		"revoked_at":        now,
		"revocation_reason": reason,
	}).Error; err != nil {
		return err
	}

	if err := s.db.Model(&models.User{}).Where("id = ? AND achievement_count > 0", userID).
		Update("achievement_count", gorm.Expr("achievement_count - 1")).Error; err != nil {
		log.Printf("Failed to drop achievement counter for user %d: %v", userID, err)
	}

	s.bus.Publish(Event{
		Type:   EventAchievementRevoked,
		UserID: userID,
		Data: map[string]any{
			"achievement_id": def.ID,
			"key":            def.Key,
			"reason":         reason,
		},
	})
	return nil
}

// RecomputeAll sweeps every user who has ever acted (placed a bet or
// appeared in a monthly ranking). One user's failure is logged and skipped,
// never aborting the sweep.
func (s *TemporaryAchievementService) RecomputeAll() (int, error) {
	userIDs := make(map[uint]bool)

	var betUsers []uint
	if err := s.db.Model(&models.Bet{}).Distinct("user_id").Pluck("user_id", &betUsers).Error; err != nil {
		return 0, fmt.Errorf("sweep: bet users: %w", err)
	}
	for _, id := range betUsers {
		userIDs[id] = true
	}

	var rankedUsers []uint
	if err := s.db.Model(&models.MonthlyRanking{}).Distinct("user_id").Pluck("user_id", &rankedUsers).Error; err != nil {
		return 0, fmt.Errorf("sweep: ranked users: %w", err)
	}
	for _, id := range rankedUsers {
		userIDs[id] = true
	}

	swept := 0
	for id := range userIDs {
		if err := s.RecomputeUser(id); err != nil {
			log.Printf("Sweep failed for user %d: %v", id, err)
			continue
		}
		swept++
	}
	return swept, nil
}
