package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qaunion/portal/database"
)

// HandleCheckHealth reports ok while the key/value store answers
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
