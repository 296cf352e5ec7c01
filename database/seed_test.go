// database/seed_test.go
package database

import (
	"fmt"
	"testing"

	"paddock/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSeedTestDB points the package connection at an in-memory SQLite
// database for the duration of one test.
func newSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := conn.AutoMigrate(&models.Achievement{}, &models.LevelReward{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db = conn
	t.Cleanup(func() {
		db = nil
		_ = sqlDB.Close()
	})

	return conn
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	conn := newSeedTestDB(t)

	SeedCatalog()
	var first int64
	require.NoError(t, conn.Model(&models.Achievement{}).Count(&first).Error)
	require.Greater(t, first, int64(0))

	SeedCatalog()
	var second int64
	require.NoError(t, conn.Model(&models.Achievement{}).Count(&second).Error)
	require.Equal(t, first, second)

	var rewards int64
	require.NoError(t, conn.Model(&models.LevelReward{}).Count(&rewards).Error)
	require.Greater(t, rewards, int64(0))
}

func TestSeedCatalogOverwritesZeroedFields(t *testing.T) {
	conn := newSeedTestDB(t)

	SeedCatalog()

	// Drift the stored row in ways only a full overwrite would undo: the
	// catalog's first_bet entry has no prerequisite, chain or tier.
	require.NoError(t, conn.Model(&models.Achievement{}).
		Where("key = ?", "first_bet").
		Updates(map[string]interface{}{
			"prerequisite_key": "bogus",
			"tier_level":       5,
			"is_temporary":     true,
			"threshold":        99,
		}).Error)

	SeedCatalog()

	var reseeded models.Achievement
	require.NoError(t, conn.Where("key = ?", "first_bet").First(&reseeded).Error)
	require.Empty(t, reseeded.PrerequisiteKey)
	require.Equal(t, 0, reseeded.TierLevel)
	require.False(t, reseeded.IsTemporary)
	require.Equal(t, 1.0, reseeded.Threshold)
}

func TestSeedCatalogPreservesIdentity(t *testing.T) {
	conn := newSeedTestDB(t)

	SeedCatalog()
	var before models.Achievement
	require.NoError(t, conn.Where("key = ?", "first_bet").First(&before).Error)

	SeedCatalog()
	var after models.Achievement
	require.NoError(t, conn.Where("key = ?", "first_bet").First(&after).Error)
	require.Equal(t, before.ID, after.ID)
	require.Equal(t, before.CreatedAt, after.CreatedAt)
}
