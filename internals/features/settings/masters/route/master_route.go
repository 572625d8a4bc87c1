package route

import (
	"pmb_backend/internals/features/settings/masters/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MasterSettingsRoutes: r = group /admin/settings.
func MasterSettingsRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewMasterController(db)

	programs := r.Group("/programs")
	programs.Get("/", ctl.ListPrograms)
	programs.Post("/", ctl.CreateProgram)
	programs.Post("/:id", ctl.UpdateProgram)
	programs.Post("/:id/toggle", ctl.ToggleProgram)

	fees := r.Group("/fees")
	fees.Get("/", ctl.ListFees)
	fees.Post("/", ctl.CreateFee)
	fees.Post("/:id", ctl.UpdateFee)
	fees.Post("/:id/toggle", ctl.ToggleFee)

	campaigns := r.Group("/campaigns")
	campaigns.Get("/", ctl.ListCampaigns)
	campaigns.Post("/", ctl.CreateCampaign)
	campaigns.Post("/:id", ctl.UpdateCampaign)
	campaigns.Post("/:id/toggle", ctl.ToggleCampaign)

	categories := r.Group("/categories")
	categories.Get("/", ctl.ListCategories)
	categories.Post("/", ctl.CreateCategory)
	categories.Post("/:id", ctl.UpdateCategory)
	categories.Post("/:id/toggle", ctl.ToggleCategory)

	lost := r.Group("/lost-reasons")
	lost.Get("/", ctl.ListLostReasons)
	lost.Post("/", ctl.CreateLostReason)
	lost.Post("/:id", ctl.UpdateLostReason)
	lost.Post("/:id/toggle", ctl.ToggleLostReason)
}
