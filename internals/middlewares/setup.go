package middlewares

import (
	"context"
	"time"

	"pmb_backend/internals/configs"
	helper "pmb_backend/internals/helpers"
	"pmb_backend/internals/middlewares/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
)

// ErrorHandler: error yang lolos dari handler (middleware auth, 404 route, body terlalu besar)
// tetap keluar dengan envelope JSON yang sama.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return helper.FromFiberError(c, err)
}

// RequestID: pakai X-Request-ID dari proxy kalau ada; sekalian pasang timeout context per request.
func RequestID(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = utils.UUID()
		}
		c.Set(fiber.HeaderXRequestID, id)
		c.Locals(logger.RequestIDLocal, id)

		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// SetupMiddlewares: urutan penting, recover paling luar dan CSRF sebelum route.
func SetupMiddlewares(app *fiber.App, cfg configs.AppConfig) {
	app.Use(Recover())
	app.Use(RequestID(10 * time.Second))
	app.Use(logger.AccessLog())
	app.Use(CorsMiddleware(cfg.CorsAllowOrigins))
	app.Use(CSRFProtection(cfg.CorsAllowOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter())
}
