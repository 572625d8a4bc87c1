package route

import (
	"pmb_backend/internals/features/referrals/rewards/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RewardSettingsRoutes: r = group /admin/settings.
func RewardSettingsRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewRewardController(db)

	grp := r.Group("/rewards")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.CreateConfig)

	// /mgm didaftarkan sebelum /:id
	grp.Post("/mgm", ctl.CreateMGM)
	grp.Post("/mgm/:id", ctl.UpdateMGM)
	grp.Post("/mgm/:id/toggle", ctl.ToggleMGM)

	grp.Post("/:id", ctl.UpdateConfig)
	grp.Post("/:id/toggle", ctl.ToggleConfig)
}
