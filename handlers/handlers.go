// handlers/handlers.go - Handler wiring
package handlers

import (
	"errors"
	"log"

	"paddock/database"
	"paddock/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	eventBus        *services.EventBus
	statsService    *services.StatsService
	xpService       *services.XPService
	achievementSvc  *services.AchievementService
	temporarySvc    *services.TemporaryAchievementService
	streakService   *services.StreakService
	activityService *services.ActivityService
)

// Init builds the service graph once the database is up. Must run before
// any route is served.
func Init() {
	db := database.GetDB()

	eventBus = services.NewEventBus()
	statsService = services.NewStatsService(db)
	xpService = services.NewXPService(db, eventBus)
	achievementSvc = services.NewAchievementService(db, statsService, xpService, eventBus)
	temporarySvc = services.NewTemporaryAchievementService(db, statsService, xpService, eventBus)
	streakService = services.NewStreakService(db, eventBus)
	activityService = services.NewActivityService(db, achievementSvc, temporarySvc, streakService, xpService)

	services.InitSweepService(temporarySvc, streakService)
}

// Bus exposes the event bus to the websocket relay.
func Bus() *services.EventBus {
	return eventBus
}

// serviceError translates a service failure to a status response. Missing
// rows surface as 404; everything else hides behind the fallback message.
func serviceError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "Not found"})
	}
	log.Printf("%s: %v", fallback, err)
	return c.Status(500).JSON(fiber.Map{"error": fallback})
}
