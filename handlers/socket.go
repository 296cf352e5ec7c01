// handlers/socket.go - Websocket event relay
package handlers

import (
	"log"

	"paddock/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// UpgradeRequired gates the websocket route to real upgrade requests.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// EventsSocket streams the authenticated user's progression events
// (unlocks, revocations, level-ups, streak records) over a websocket.
// GET /ws/events
var EventsSocket = websocket.New(func(conn *websocket.Conn) {
	userID := localUserID(conn)
	if userID == 0 {
		_ = conn.WriteJSON(fiber.Map{"error": "Authentication required"})
		_ = conn.Close()
		return
	}

	events, cancel := Bus().Subscribe(userID)
	defer cancel()

	// Drain inbound frames so close frames are processed; the relay is
	// write-only otherwise.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
			markDelivered(evt)
		case <-closed:
			return
		}
	}
})

// markDelivered flags unlock records whose event reached the user.
func markDelivered(evt services.Event) {
	if evt.Type != services.EventAchievementUnlocked {
		return
	}
	id, ok := evt.Data["achievement_id"].(uint)
	if !ok {
		return
	}
	if err := achievementSvc.MarkNotified(evt.UserID, id); err != nil {
		log.Printf("Failed to mark notification for user %d: %v", evt.UserID, err)
	}
}

func localUserID(conn *websocket.Conn) uint {
	switch v := conn.Locals("userId").(type) {
	case float64:
		return uint(v)
	case uint:
		return v
	default:
		return 0
	}
}
