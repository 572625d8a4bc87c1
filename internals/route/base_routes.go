package routes

import (
	"time"

	"pmb_backend/internals/configs"
	database "pmb_backend/internals/databases"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var startTime = time.Now()

func BaseRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("PMB backend 🚀")
	})

	// ❤️ health: 503 kalau DB tidak bisa di-ping
	app.Get("/health", func(c *fiber.Ctx) error {
		status, code := "ok", fiber.StatusOK
		if err := database.Ping(db); err != nil {
			zap.S().Warnw("⚠️ health: DB ping gagal", "err", err)
			status, code = "degraded", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":         status,
			"version":        configs.Version(),
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		})
	})
}
