package route

import (
	controller "pmb_backend/internals/features/users/auth/controller"
	rateLimiter "pmb_backend/internals/middlewares"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AuthRoutes(app fiber.Router, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	// 🔓 Public
	app.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)

	// 🔐 Protected
	app.Post("/logout", authMw.AuthMiddleware(db), authController.Logout)
	app.Get("/me", authMw.AuthMiddleware(db), authController.Me)
}
