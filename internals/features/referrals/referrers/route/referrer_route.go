package route

import (
	"pmb_backend/internals/features/referrals/referrers/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReferrerSettingsRoutes: r = group /admin/settings (sudah RequireCapability settings.manage).
func ReferrerSettingsRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewReferrerController(db)

	grp := r.Group("/referrers")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Get)
	grp.Post("/:id", ctl.Update)
	grp.Post("/:id/toggle", ctl.Toggle)
}
