package middlewares

import (
	"pmb_backend/internals/middlewares/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Recover: panic jadi error 500 lewat ErrorHandler; stack dicatat ke zap bersama id request.
func Recover() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			zap.S().Errorw("💥 panic",
				"request_id", c.Locals(logger.RequestIDLocal),
				"method", c.Method(),
				"path", c.Path(),
				"panic", e,
				zap.StackSkip("stack", 3),
			)
		},
	})
}
