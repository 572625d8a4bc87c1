package route

import (
	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/finance/billings/controller"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BillingAdminRoutes: r = group /admin.
func BillingAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewBillingController(db)

	grp := r.Group("/finance/billings", authMw.RequireCapability(constants.CapBillingsManage, "tagihan"))
	grp.Get("/", ctl.List)
	grp.Get("/create", ctl.CreateForm)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Get)
	grp.Post("/:id", ctl.Update)
	grp.Post("/:id/cancel", ctl.Cancel)
	grp.Post("/:id/mark-paid", ctl.MarkPaid)
}

// BillingPortalRoutes: r = group /portal.
func BillingPortalRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewBillingController(db)
	r.Get("/billings", ctl.Portal)
}
