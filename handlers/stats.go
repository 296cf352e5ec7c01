// handlers/stats.go - Aggregated user stats
package handlers

import (
	"paddock/database"
	"paddock/middleware"
	"paddock/models"
	"paddock/services"

	"github.com/gofiber/fiber/v2"
)

// GetUserStats returns the aggregated progression figures for the current
// user: XP, level, achievement completion, betting/racing metrics, streaks.
// GET /api/progression/stats
func GetUserStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	stats, err := statsService.Build(userID)
	if err != nil {
		return serviceError(c, err, "Failed to build stats")
	}

	var catalogSize int64
	db.Model(&models.Achievement{}).Count(&catalogSize)
	completion := 0.0
	if catalogSize > 0 {
		completion = float64(user.AchievementCount) / float64(catalogSize) * 100
	}

	response := fiber.Map{
		"success":                true,
		"level":                  user.Level,
		"total_xp":               user.TotalXP,
		"xp_to_next_level":       services.XPToNextLevel(user.TotalXP),
		"progress_percent":       services.ProgressPercent(user.TotalXP),
		"xp_multiplier":          xpService.ActiveMultiplier(user.Level),
		"achievement_count":      user.AchievementCount,
		"achievement_completion": completion,
		"equipped_title":         user.EquippedTitle,

		"total_bets":     stats.TotalBets,
		"total_wins":     stats.TotalWins,
		"total_points":   stats.TotalPoints,
		"win_rate":       stats.WinRate,
		"perfect_bets":   stats.PerfectBets,
		"partial_wins":   stats.PartialWins,
		"high_odds_wins": stats.HighOddsWins,
		"comeback_wins":  stats.ComebackWins,
		"monthly_bets":   stats.MonthlyBets,
		"monthly_wins":   stats.MonthlyWins,
		"monthly_points": stats.MonthlyPoints,

		"current_rank": stats.CurrentRank,
		"best_rank":    stats.BestRank,

		"current_monthly_streak":  stats.CurrentMonthlyStreak,
		"current_lifetime_streak": stats.CurrentLifetimeStreak,
		"longest_lifetime_streak": stats.LongestLifetimeStreak,
		"current_win_streak":      stats.CurrentWinStreak,
		"best_win_streak":         stats.BestWinStreak,
	}

	if stats.IsCompetitor {
		response["racing"] = fiber.Map{
			"career_wins":         stats.CareerWins,
			"race_count":          stats.RaceCount,
			"current_win_streak":  stats.RaceWinStreak,
			"best_win_streak":     stats.BestRaceWinStreak,
			"current_play_streak": stats.CurrentPlayStreak,
			"best_play_streak":    stats.BestPlayStreak,
			"rating":              stats.Rating,
			"recent_avg_finish":   stats.RecentAvgFinish,
		}
	}

	return c.JSON(response)
}
