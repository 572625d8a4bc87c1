package route

import (
	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/announcements/controller"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AnnouncementAdminRoutes: r = group /admin.
func AnnouncementAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewAnnouncementController(db)

	grp := r.Group("/announcements", authMw.RequireCapability(constants.CapAnnouncementsManage, "mengelola pengumuman"))
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Get)
	grp.Post("/:id", ctl.Update)
	grp.Post("/:id/toggle", ctl.Toggle)
	grp.Post("/:id/delete", ctl.Delete)
	grp.Delete("/:id", ctl.Delete)
}
