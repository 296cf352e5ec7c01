// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"paddock/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Competitor{},
		&models.Bet{},
		&models.RaceResult{},
		&models.MonthlyRanking{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.UserStreak{},
		&models.XPTransaction{},
		&models.LevelReward{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes the AutoMigrate tags don't cover
func createIndexes() {
	db := GetDB()
	log.Println("Creating indexes...")

	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_level ON users(level DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_total_xp ON users(total_xp DESC)")

	// Bet indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_bets_user_status ON bets(user_id, status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_bets_settled ON bets(settled_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_bets_created ON bets(created_at DESC)")

	// Ranking indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_rankings_month ON monthly_rankings(year DESC, month DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_rankings_rank ON monthly_rankings(rank)")

	// Achievement indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_achievements_chain ON achievements(chain_name, tier_level)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_achievements_user ON user_achievements(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_achievements_active ON user_achievements(user_id, revoked_at)")

	// XP ledger indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_xp_transactions_user_earned ON xp_transactions(user_id, earned_at DESC)")

	log.Println("✅ Indexes created successfully")
}
