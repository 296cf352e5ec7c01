// database/seed.go - Achievement catalog and level reward seeding
package database

import (
	"log"
	"paddock/models"
)

// SeedCatalog upserts the achievement catalog and the level-reward table.
// Seeding is idempotent (upsert by natural key) and is the only way these
// rows are created or updated.
func SeedCatalog() {
	db := GetDB()
	log.Println("🔄 Seeding achievement catalog...")

	for _, def := range achievementCatalog() {
		var existing models.Achievement
		if err := db.Where("key = ?", def.Key).First(&existing).Error; err != nil {
			if err := db.Create(&def).Error; err != nil {
				log.Printf("Failed to seed achievement %s: %v", def.Key, err)
			}
			continue
		}
		// Select("*") so a revision that zeroes a field (cleared prerequisite,
		// dropped threshold) still overwrites the stored row.
		if err := db.Model(&existing).Select("*").Omit("id", "created_at").
			Updates(&def).Error; err != nil {
			log.Printf("Failed to update achievement %s: %v", def.Key, err)
		}
	}

	for _, reward := range levelRewardCatalog() {
		var existing models.LevelReward
		if err := db.Where("level = ?", reward.Level).First(&existing).Error; err != nil {
			if err := db.Create(&reward).Error; err != nil {
				log.Printf("Failed to seed level reward %d: %v", reward.Level, err)
			}
			continue
		}
		if err := db.Model(&existing).Select("*").Omit("id", "created_at").
			Updates(&reward).Error; err != nil {
			log.Printf("Failed to update level reward %d: %v", reward.Level, err)
		}
	}

	log.Println("✅ Catalog seeding completed")
}

func achievementCatalog() []models.Achievement {
	return []models.Achievement{
		// Getting started
		{Key: "first_bet", Name: "Off the Mark", Description: "Place your first bet", Category: "Milestone", Rarity: models.RarityCommon, Icon: "🎫", XPReward: 50, Domain: models.DomainBetting, Metric: "total_bets", Operator: models.OpGTE, Threshold: 1},

		// Winner chain: strictly ordered tiers
		{Key: "first_win", Name: "First Past the Post", Description: "Win your first bet", Category: "Wins", Rarity: models.RarityCommon, Icon: "🏇", XPReward: 50, Domain: models.DomainBetting, Metric: "total_wins", Operator: models.OpGTE, Threshold: 1, ChainName: "winner", TierLevel: 1},
		{Key: "seasoned_winner", Name: "Seasoned Winner", Description: "Win 25 bets", Category: "Wins", Rarity: models.RarityRare, Icon: "🏆", XPReward: 100, Domain: models.DomainBetting, Metric: "total_wins", Operator: models.OpGTE, Threshold: 25, ChainName: "winner", TierLevel: 2, PrerequisiteKey: "first_win"},
		{Key: "master_tipster", Name: "Master Tipster", Description: "Win 100 bets", Category: "Wins", Rarity: models.RarityEpic, Icon: "👑", XPReward: 250, Domain: models.DomainBetting, Metric: "total_wins", Operator: models.OpGTE, Threshold: 100, ChainName: "winner", TierLevel: 3, PrerequisiteKey: "seasoned_winner", UnlockedTitle: "Master Tipster"},

		// Accuracy
		{Key: "perfect_pick", Name: "Perfect Pick", Description: "Get all three picks right on one bet", Category: "Accuracy", Rarity: models.RarityRare, Icon: "🎯", XPReward: 100, Domain: models.DomainBetting, Metric: "perfect_bets", Operator: models.OpGTE, Threshold: 1},
		{Key: "perfect_ten", Name: "Perfect Ten", Description: "Land 10 perfect bets", Category: "Accuracy", Rarity: models.RarityEpic, Icon: "💎", XPReward: 250, Domain: models.DomainBetting, Metric: "perfect_bets", Operator: models.OpGTE, Threshold: 10, PrerequisiteKey: "perfect_pick"},
		{Key: "near_miss", Name: "So Close", Description: "Hit exactly two of three picks five times", Category: "Accuracy", Rarity: models.RarityCommon, Icon: "😅", XPReward: 50, Domain: models.DomainBetting, Metric: "partial_wins", Operator: models.OpGTE, Threshold: 5},
		{Key: "sharp_eye", Name: "Sharp Eye", Description: "Hold a 60% win rate over at least 50 bets", Category: "Accuracy", Rarity: models.RarityEpic, Icon: "🦅", XPReward: 250, Domain: models.DomainBetting, Metric: "win_rate", Operator: models.OpGTE, Threshold: 60, MinCountMetric: "total_bets", MinCountValue: 50, UnlockedTitle: "The Sharp"},

		// Odds
		{Key: "longshot", Name: "Longshot", Description: "Win a bet at long odds", Category: "Odds", Rarity: models.RarityRare, Icon: "🍀", XPReward: 100, Domain: models.DomainBetting, Metric: "high_odds_wins", Operator: models.OpGTE, Threshold: 1},
		{Key: "longshot_legend", Name: "Longshot Legend", Description: "Win 10 bets at long odds", Category: "Odds", Rarity: models.RarityLegendary, Icon: "🌈", XPReward: 500, Domain: models.DomainBetting, Metric: "high_odds_wins", Operator: models.OpGTE, Threshold: 10, PrerequisiteKey: "longshot", UnlockedTitle: "Longshot Legend"},

		// Grit
		{Key: "comeback_king", Name: "Comeback King", Description: "Win right after three straight losses, three times", Category: "Grit", Rarity: models.RarityEpic, Icon: "🔄", XPReward: 250, Domain: models.DomainBetting, Metric: "comeback_wins", Operator: models.OpGTE, Threshold: 3, UnlockedTitle: "Comeback King"},

		// Monthly volume
		{Key: "monthly_century", Name: "Monthly Century", Description: "Score 1,000 points in a single month", Category: "Volume", Rarity: models.RarityRare, Icon: "💯", XPReward: 100, Domain: models.DomainBetting, Metric: "points", Operator: models.OpGTE, Threshold: 1000, Scope: models.ScopeMonthly},
		{Key: "heavy_hitter", Name: "Heavy Hitter", Description: "Place 30 bets in a single month", Category: "Volume", Rarity: models.RarityRare, Icon: "📊", XPReward: 100, Domain: models.DomainBetting, Metric: "total_bets", Operator: models.OpGTE, Threshold: 30, Scope: models.ScopeMonthly},

		// Boosts
		{Key: "boosted", Name: "Boosted", Description: "Use your first boost", Category: "Boosts", Rarity: models.RarityCommon, Icon: "🚀", XPReward: 50, Domain: models.DomainBetting, Metric: "boosts_used", Operator: models.OpGTE, Threshold: 1},
		{Key: "boost_devotee", Name: "Boost Devotee", Description: "Boost at least one bet in three straight months", Category: "Boosts", Rarity: models.RarityRare, Icon: "⚡", XPReward: 100, Domain: models.DomainBetting, Metric: "consecutive_boost_months", Operator: models.OpGTE, Threshold: 3},

		// Streaks
		{Key: "week_in_week_out", Name: "Week In, Week Out", Description: "Bet in four consecutive weeks", Category: "Streaks", Rarity: models.RarityRare, Icon: "📅", XPReward: 100, Domain: models.DomainBetting, Metric: "current_lifetime_streak", Operator: models.OpGTE, Threshold: 4},
		{Key: "iron_run", Name: "Iron Run", Description: "Bet in twelve consecutive weeks", Category: "Streaks", Rarity: models.RarityEpic, Icon: "🔥", XPReward: 250, Domain: models.DomainBetting, Metric: "longest_lifetime_streak", Operator: models.OpGTE, Threshold: 12, PrerequisiteKey: "week_in_week_out"},
		{Key: "three_straight", Name: "Three Straight", Description: "Win bets in three consecutive weeks", Category: "Streaks", Rarity: models.RarityCommon, Icon: "3️⃣", XPReward: 50, Domain: models.DomainBetting, Metric: "current_win_streak", Operator: models.OpGTE, Threshold: 3},
		{Key: "golden_run", Name: "Golden Run", Description: "Win bets in eight consecutive weeks", Category: "Streaks", Rarity: models.RarityLegendary, Icon: "✨", XPReward: 500, Domain: models.DomainBetting, Metric: "best_win_streak", Operator: models.OpGTE, Threshold: 8, PrerequisiteKey: "three_straight", UnlockedTitle: "Golden"},

		// Rankings (permanent)
		{Key: "podium_finish", Name: "Podium Finish", Description: "Finish a month in the top three", Category: "Rankings", Rarity: models.RarityRare, Icon: "🥉", XPReward: 100, Domain: models.DomainBetting, Metric: "best_rank", Operator: models.OpLTE, Threshold: 3, MinCountMetric: "best_rank", MinCountValue: 1},
		{Key: "dynasty", Name: "Dynasty", Description: "Finish #1 three months running", Category: "Rankings", Rarity: models.RarityLegendary, Icon: "🏛️", XPReward: 500, Domain: models.DomainBetting, Metric: "consecutive_first_places", Operator: models.OpGTE, Threshold: 3, UnlockedTitle: "Dynasty"},

		// Racing domain (only evaluated for users linked to a competitor)
		{Key: "first_gallop", Name: "First Gallop", Description: "Run your first race", Category: "Racing", Rarity: models.RarityCommon, Icon: "🐎", XPReward: 50, Domain: models.DomainRacing, Metric: "race_count", Operator: models.OpGTE, Threshold: 1},
		{Key: "race_winner", Name: "Race Winner", Description: "Win a race", Category: "Racing", Rarity: models.RarityRare, Icon: "🏁", XPReward: 100, Domain: models.DomainRacing, Metric: "career_wins", Operator: models.OpGTE, Threshold: 1, PrerequisiteKey: "first_gallop"},
		{Key: "centurion", Name: "Centurion", Description: "Run 100 races", Category: "Racing", Rarity: models.RarityEpic, Icon: "💪", XPReward: 250, Domain: models.DomainRacing, Metric: "race_count", Operator: models.OpGTE, Threshold: 100},
		{Key: "stable_star", Name: "Stable Star", Description: "Reach a conservative rating of 30 over at least 20 races", Category: "Racing", Rarity: models.RarityEpic, Icon: "⭐", XPReward: 250, Domain: models.DomainRacing, Metric: "rating", Operator: models.OpGTE, Threshold: 30, MinCountMetric: "race_count", MinCountValue: 20, UnlockedTitle: "Stable Star"},
		{Key: "consistent_runner", Name: "Consistent Runner", Description: "Average a top-three finish over your recent races", Category: "Racing", Rarity: models.RarityRare, Icon: "📈", XPReward: 100, Domain: models.DomainRacing, Metric: "recent_avg_finish", Operator: models.OpLTE, Threshold: 3, MinCountMetric: "race_count", MinCountValue: 10},

		// --- Temporary families: revocable, re-derived on a schedule ---

		// Rank medals (monthly sweep)
		{Key: "monthly_rank_gold", Name: "Gold Medal", Description: "Ranked #1 this month", Category: "Medals", Rarity: models.RarityLegendary, Icon: "🥇", XPReward: 500, Domain: models.DomainBetting, Metric: "current_rank", Operator: models.OpEQ, Threshold: 1, MinCountMetric: "current_rank", MinCountValue: 1, ChainName: "rank_medal", TierLevel: 3, IsTemporary: true, CanBeLost: true, UnlockedTitle: "Champion"},
		{Key: "monthly_rank_silver", Name: "Silver Medal", Description: "Ranked top three this month", Category: "Medals", Rarity: models.RarityEpic, Icon: "🥈", XPReward: 250, Domain: models.DomainBetting, Metric: "current_rank", Operator: models.OpLTE, Threshold: 3, MinCountMetric: "current_rank", MinCountValue: 1, ChainName: "rank_medal", TierLevel: 2, IsTemporary: true, CanBeLost: true},
		{Key: "monthly_rank_bronze", Name: "Bronze Medal", Description: "Ranked top ten this month", Category: "Medals", Rarity: models.RarityRare, Icon: "🥉", XPReward: 100, Domain: models.DomainBetting, Metric: "current_rank", Operator: models.OpLTE, Threshold: 10, MinCountMetric: "current_rank", MinCountValue: 1, ChainName: "rank_medal", TierLevel: 1, IsTemporary: true, CanBeLost: true},

		// Rolling 30-day form (daily sweep)
		{Key: "form_untouchable", Name: "Untouchable", Description: "70% win rate over 30+ bets in the last 30 days", Category: "Form", Rarity: models.RarityLegendary, Icon: "🔱", XPReward: 500, Domain: models.DomainBetting, Metric: "rolling_win_rate", Operator: models.OpGTE, Threshold: 70, MinCountMetric: "rolling_bets", MinCountValue: 30, ChainName: "form", TierLevel: 3, IsTemporary: true, CanBeLost: true, UnlockedTitle: "Untouchable"},
		{Key: "form_on_fire", Name: "On Fire", Description: "60% win rate over 20+ bets in the last 30 days", Category: "Form", Rarity: models.RarityEpic, Icon: "🔥", XPReward: 250, Domain: models.DomainBetting, Metric: "rolling_win_rate", Operator: models.OpGTE, Threshold: 60, MinCountMetric: "rolling_bets", MinCountValue: 20, ChainName: "form", TierLevel: 2, IsTemporary: true, CanBeLost: true},
		{Key: "form_in_form", Name: "In Form", Description: "50% win rate over 10+ bets in the last 30 days", Category: "Form", Rarity: models.RarityRare, Icon: "📈", XPReward: 100, Domain: models.DomainBetting, Metric: "rolling_win_rate", Operator: models.OpGTE, Threshold: 50, MinCountMetric: "rolling_bets", MinCountValue: 10, ChainName: "form", TierLevel: 1, IsTemporary: true, CanBeLost: true},

		// Weekly participation (daily sweep)
		{Key: "participation_ever_present", Name: "Ever Present", Description: "Bet in four straight weeks this month", Category: "Participation", Rarity: models.RarityRare, Icon: "🗓️", XPReward: 100, Domain: models.DomainBetting, Metric: "current_monthly_streak", Operator: models.OpGTE, Threshold: 4, ChainName: "participation", TierLevel: 2, IsTemporary: true, CanBeLost: true},
		{Key: "participation_regular", Name: "Regular", Description: "Bet in two straight weeks this month", Category: "Participation", Rarity: models.RarityCommon, Icon: "📆", XPReward: 50, Domain: models.DomainBetting, Metric: "current_monthly_streak", Operator: models.OpGTE, Threshold: 2, ChainName: "participation", TierLevel: 1, IsTemporary: true, CanBeLost: true},
	}
}

func levelRewardCatalog() []models.LevelReward {
	return []models.LevelReward{
		{Level: 2, RewardType: models.RewardTitle, Value: "Apprentice Tipster"},
		{Level: 3, RewardType: models.RewardBadge, Value: "bronze_rosette"},
		{Level: 5, RewardType: models.RewardXPMultiplier, Multiplier: 1.1},
		{Level: 10, RewardType: models.RewardTitle, Value: "Paddock Regular"},
		{Level: 15, RewardType: models.RewardXPMultiplier, Multiplier: 1.25},
		{Level: 20, RewardType: models.RewardBadge, Value: "silver_rosette"},
		{Level: 25, RewardType: models.RewardTitle, Value: "Ring Veteran"},
		{Level: 30, RewardType: models.RewardXPMultiplier, Multiplier: 1.5},
		{Level: 50, RewardType: models.RewardTitle, Value: "Turf Legend"},
	}
}
