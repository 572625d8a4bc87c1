package route

import (
	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/candidates/candidates/controller"
	rateLimiter "pmb_backend/internals/middlewares"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RegistrationRoutes: wizard publik. Step 1 tanpa sesi, step 2-4 butuh sesi kandidat (dicek service).
func RegistrationRoutes(app fiber.Router, db *gorm.DB) {
	ctl := controller.NewRegistrationController(db)

	grp := app.Group("/register", authMw.OptionalAuthMiddleware(db))
	grp.Get("/state", ctl.State)
	grp.Post("/step/:n", rateLimiter.RegisterRateLimiter(), ctl.Step)
}

// PortalRoutes: r = group /portal (AuthMiddleware + OnlyCandidate).
func PortalRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewPortalController(db)
	r.Get("/", ctl.Dashboard)
}

// CandidateAdminRoutes: r = group /admin.
func CandidateAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewCandidateController(db)

	view := authMw.RequireCapability(constants.CapCandidatesView, "daftar kandidat")
	grp := r.Group("/candidates")
	grp.Get("/", view, ctl.List)
	grp.Get("/:id", view, ctl.Detail)
	grp.Post("/:id/status", authMw.RequireCapability(constants.CapCandidatesUpdateStatus, "ubah status kandidat"), ctl.UpdateStatus)
	grp.Get("/:id/reassign", view, ctl.ReassignOptions)
	grp.Post("/:id/reassign", authMw.RequireCapability(constants.CapCandidatesReassign, "pengalihan kandidat"), ctl.Reassign)
}
