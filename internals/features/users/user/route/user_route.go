package route

import (
	"pmb_backend/internals/features/users/user/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserSettingsRoutes: r = group /admin/settings.
func UserSettingsRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewUserController(db)

	grp := r.Group("/users")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Get)
	grp.Post("/:id", ctl.Update)
	grp.Post("/:id/toggle", ctl.Toggle)
}
