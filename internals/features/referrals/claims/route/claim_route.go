package route

import (
	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/referrals/claims/controller"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ClaimAdminRoutes: r = group /admin.
func ClaimAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewClaimController(db)

	grp := r.Group("/referral-claims", authMw.RequireCapability(constants.CapReferralClaimsResolve, "verifikasi klaim referral"))
	grp.Get("/", ctl.List)
	grp.Post("/:id/link", ctl.Link)
	grp.Post("/:id/invalid", ctl.Invalidate)
}
