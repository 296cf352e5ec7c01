// services/testutil_test.go
package services

import (
	"fmt"
	"testing"

	"paddock/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database migrated with the full model
// set and closed when the test finishes.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Competitor{},
		&models.RaceResult{},
		&models.Bet{},
		&models.MonthlyRanking{},
		&models.UserStreak{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.XPTransaction{},
		&models.LevelReward{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// testServices wires the full service graph against one test database.
type testServices struct {
	bus          *EventBus
	stats        *StatsService
	xp           *XPService
	achievements *AchievementService
	temporary    *TemporaryAchievementService
	streaks      *StreakService
	activity     *ActivityService
}

func newTestServices(db *gorm.DB) *testServices {
	bus := NewEventBus()
	stats := NewStatsService(db)
	xp := NewXPService(db, bus)
	achievements := NewAchievementService(db, stats, xp, bus)
	temporary := NewTemporaryAchievementService(db, stats, xp, bus)
	streaks := NewStreakService(db, bus)

	return &testServices{
		bus:          bus,
		stats:        stats,
		xp:           xp,
		achievements: achievements,
		temporary:    temporary,
		streaks:      streaks,
		activity:     NewActivityService(db, achievements, temporary, streaks, xp),
	}
}

func newTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Password: "test", Level: 1}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}
