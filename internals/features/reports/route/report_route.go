package route

import (
	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/reports/controller"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReportAdminRoutes: r = group /admin.
func ReportAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewReportController(db)

	grp := r.Group("/reports", authMw.RequireCapability(constants.CapReportsView, "melihat laporan"))
	grp.Get("/funnel", ctl.Funnel)
	grp.Get("/campaigns", ctl.Campaigns)
	grp.Get("/consultants", ctl.Consultants)
	grp.Get("/referrers", ctl.Referrers)
}
