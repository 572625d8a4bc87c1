package route

import (
	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/candidates/interactions/controller"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InteractionAdminRoutes: r = group /admin.
func InteractionAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewInteractionController(db)
	const feature = "interaksi kandidat"

	r.Post("/candidates/:id/interaction", authMw.RequireCapability(constants.CapInteractionsLog, feature), ctl.Log)
	r.Get("/candidates/:id/interactions", authMw.RequireCapability(constants.CapCandidatesView, feature), ctl.List)
	r.Post("/interactions/:id/suggestion", authMw.RequireCapability(constants.CapSuggestionsWrite, "saran supervisor"), ctl.Suggest)

	// badge & baca saran: semua staf, kepemilikan dicek di service
	r.Get("/suggestions/unread-count", ctl.UnreadCount)
	r.Post("/suggestions/:id/read", ctl.MarkRead)
}
