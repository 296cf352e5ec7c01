// handlers/achievements.go - Achievement query surface
package handlers

import (
	"paddock/middleware"
	"paddock/services"

	"github.com/gofiber/fiber/v2"
)

// GetAchievements lists the catalog with per-user unlock and progress
// annotation, optionally filtered by category, rarity, domain or lock state.
// GET /api/achievements?category=&rarity=&domain=&state=locked|unlocked
func GetAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	statuses, err := achievementSvc.ListWithStatus(
		userID,
		c.Query("category"),
		c.Query("rarity"),
		c.Query("domain"),
	)
	if err != nil {
		return serviceError(c, err, "Failed to fetch achievements")
	}

	if state := c.Query("state"); state == "locked" || state == "unlocked" {
		filtered := make([]services.AchievementStatus, 0, len(statuses))
		for _, status := range statuses {
			if status.Unlocked == (state == "unlocked") {
				filtered = append(filtered, status)
			}
		}
		statuses = filtered
	}

	unlockedCount := 0
	for _, status := range statuses {
		if status.Unlocked {
			unlockedCount++
		}
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": statuses,
		"total":        len(statuses),
		"unlocked":     unlockedCount,
	})
}

// GetUnlockedAchievements returns the user's active unlock records.
// GET /api/achievements/unlocked
func GetUnlockedAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	records, err := achievementSvc.Unlocked(userID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch achievements")
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": records,
		"total":        len(records),
	})
}

type EquipTitleRequest struct {
	Key string `json:"key"`
}

// EquipTitle sets the user's displayed title from an unlocked achievement.
// POST /api/achievements/title
func EquipTitle(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req EquipTitleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Key == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Achievement key required"})
	}

	if err := achievementSvc.EquipTitle(userID, req.Key); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "equipped": req.Key})
}

// UnequipTitle clears the user's displayed title.
// DELETE /api/achievements/title
func UnequipTitle(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	if err := achievementSvc.EquipTitle(userID, ""); err != nil {
		return serviceError(c, err, "Failed to unequip title")
	}

	return c.JSON(fiber.Map{"success": true})
}
