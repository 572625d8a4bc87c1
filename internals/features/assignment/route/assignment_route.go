package route

import (
	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/assignment/controller"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AssignmentAdminRoutes: r = group /admin (sudah AuthMiddleware + OnlyStaff).
func AssignmentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewAssignmentController(db)

	grp := r.Group("/settings/assignment", authMw.RequireCapability(constants.CapAssignmentManage, "algoritma assignment"))
	grp.Get("/", ctl.List)
	grp.Post("/:id/activate", ctl.Activate)
}
