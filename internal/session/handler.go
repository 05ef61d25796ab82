package session

import (
	"github.com/gofiber/fiber/v2"
)

// Oturum endpoint'leri sadece görünürlük içindir ("kimler online"),
// yetkilendirme kararı vermez.

// POST /api/sessions/heartbeat
func HeartbeatHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid, ok := c.Locals("session_id").(uint); ok && sid != 0 {
			Heartbeat(sid)
		}
		return c.JSON(fiber.Map{"message": "ok"})
	}
}

// GET /api/sessions/active?minutes=10
func ActiveSessionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		minutes := c.QueryInt("minutes", 10)
		if minutes <= 0 {
			minutes = 10
		}
		return c.JSON(Active(minutes))
	}
}

// GET /api/sessions/history?limit=100
func SessionHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 100)
		if limit <= 0 || limit > 1000 {
			limit = 100
		}
		return c.JSON(History(limit))
	}
}
