// handlers/leaderboard.go - Monthly ranking query surface
package handlers

import (
	"time"

	"paddock/database"
	"paddock/models"

	"github.com/gofiber/fiber/v2"
)

// GetLeaderboard returns one month's ranking table, defaulting to the
// current month. Rows are produced by the external ranking pipeline; this
// endpoint only reads them.
// GET /api/leaderboard?year=2026&month=8&limit=100&offset=0
func GetLeaderboard(c *fiber.Ctx) error {
	now := time.Now()
	year := queryInt(c, "year", now.Year())
	month := clampInt(queryInt(c, "month", int(now.Month())), 1, 12)
	limit := clampInt(queryInt(c, "limit", 100), 1, 100)
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	db := database.GetDB()

	var rows []models.MonthlyRanking
	if err := db.Preload("User").
		Where("year = ? AND month = ?", year, month).
		Order("rank ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return serviceError(c, err, "Failed to fetch leaderboard")
	}

	entries := make([]fiber.Map, 0, len(rows))
	for _, row := range rows {
		entry := fiber.Map{
			"rank":    row.Rank,
			"points":  row.Points,
			"user_id": row.UserID,
		}
		if row.User != nil {
			entry["username"] = row.User.Username
			entry["display_name"] = row.User.DisplayName
			entry["level"] = row.User.Level
			entry["equipped_title"] = row.User.EquippedTitle
		}
		entries = append(entries, entry)
	}

	var total int64
	db.Model(&models.MonthlyRanking{}).Where("year = ? AND month = ?", year, month).Count(&total)

	return c.JSON(fiber.Map{
		"success": true,
		"year":    year,
		"month":   month,
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}
