// handlers/activity.go - Inbound activity events
package handlers

import (
	"paddock/services"

	"github.com/gofiber/fiber/v2"
)

// BetFinalized consumes an "activity finalized" event from the betting
// pipeline and runs the user's progression pipeline.
// POST /api/activity/bet
func BetFinalized(c *fiber.Ctx) error {
	var req services.BetResult
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	unlocked, err := activityService.BetFinalized(req)
	if err != nil {
		return serviceError(c, err, "Failed to process bet")
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"new_achievements": unlocked,
	})
}

type RaceRecordedRequest struct {
	RaceID  string               `json:"race_id"`
	Results []services.RaceEntry `json:"results"`
}

// RaceRecorded consumes a "race recorded" event and evaluates racing
// achievements for every linked user.
// POST /api/activity/race
func RaceRecorded(c *fiber.Ctx) error {
	var req RaceRecordedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := activityService.RaceRecorded(req.RaceID, req.Results); err != nil {
		return serviceError(c, err, "Failed to process race")
	}

	return c.JSON(fiber.Map{"success": true})
}

// TriggerDailySweep runs the daily temporary-achievement sweep on demand.
// POST /api/sweep/daily
func TriggerDailySweep(c *fiber.Ctx) error {
	services.GetSweepService().RunDaily()
	return c.JSON(fiber.Map{"success": true})
}

// TriggerMonthlySweep runs the month-boundary sweep on demand.
// POST /api/sweep/monthly
func TriggerMonthlySweep(c *fiber.Ctx) error {
	services.GetSweepService().RunMonthly()
	return c.JSON(fiber.Map{"success": true})
}
