package route

import (
	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/referrals/commissions/controller"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CommissionAdminRoutes: r = group /admin.
func CommissionAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewCommissionController(db)
	const feature = "komisi referral"

	view := authMw.RequireCapability(constants.CapCommissionsView, feature)
	approve := authMw.RequireCapability(constants.CapCommissionsApprove, feature)
	pay := authMw.RequireCapability(constants.CapCommissionsPay, feature)
	export := authMw.RequireCapability(constants.CapCommissionsExport, feature)

	grp := r.Group("/commissions")
	grp.Get("/", view, ctl.List)
	grp.Get("/export", export, ctl.Export)
	grp.Post("/approve", approve, ctl.ApproveMany)
	grp.Post("/pay", pay, ctl.PayMany)
	grp.Post("/:id/approve", approve, ctl.Approve)
	grp.Post("/:id/pay", pay, ctl.Pay)
}
