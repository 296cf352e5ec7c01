// handlers/xp.go - XP history and level rewards
package handlers

import (
	"strconv"

	"paddock/database"
	"paddock/middleware"
	"paddock/models"
	"paddock/services"

	"github.com/gofiber/fiber/v2"
)

// GetXPHistory returns a page of the user's XP ledger, newest first.
// GET /api/progression/xp/history?limit=50&offset=0
func GetXPHistory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	limit := clampInt(queryInt(c, "limit", 50), 1, 200)
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := xpService.History(userID, limit, offset)
	if err != nil {
		return serviceError(c, err, "Failed to fetch XP history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetLevelRewards returns the full reward catalog, the user's unlocked
// subset and the active XP multiplier.
// GET /api/progression/rewards
func GetLevelRewards(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var catalog []models.LevelReward
	if err := db.Order("level ASC").Find(&catalog).Error; err != nil {
		return serviceError(c, err, "Failed to fetch level rewards")
	}

	unlocked, err := xpService.UnlockedRewards(user.Level)
	if err != nil {
		return serviceError(c, err, "Failed to fetch level rewards")
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"rewards":           catalog,
		"unlocked":          unlocked,
		"level":             user.Level,
		"active_multiplier": xpService.ActiveMultiplier(user.Level),
		"xp_to_next_level":  services.XPToNextLevel(user.TotalXP),
	})
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
