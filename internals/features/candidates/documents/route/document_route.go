package route

import (
	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/candidates/documents/controller"
	oss "pmb_backend/internals/helpers/oss"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DocumentPortalRoutes: r = group /portal.
func DocumentPortalRoutes(r fiber.Router, db *gorm.DB, blob oss.BlobService) {
	ctl := controller.NewDocumentController(db, blob)
	r.Get("/documents", ctl.Slots)
	r.Post("/documents/upload", ctl.Upload)
}

// DocumentAdminRoutes: r = group /admin.
func DocumentAdminRoutes(r fiber.Router, db *gorm.DB, blob oss.BlobService) {
	ctl := controller.NewDocumentController(db, blob)
	const feature = "review dokumen"

	grp := r.Group("/documents")
	grp.Get("/", authMw.RequireCapability(constants.CapDocumentsView, feature), ctl.List)
	grp.Post("/:id/approve", authMw.RequireCapability(constants.CapDocumentsReview, feature), ctl.Approve)
	grp.Post("/:id/reject", authMw.RequireCapability(constants.CapDocumentsReview, feature), ctl.Reject)
}

// DocumentTypeSettingsRoutes: r = group /admin/settings (CapSettingsManage).
func DocumentTypeSettingsRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewDocumentController(db, nil)

	grp := r.Group("/document-types")
	grp.Get("/", ctl.ListTypes)
	grp.Post("/", ctl.CreateType)
	grp.Post("/:id", ctl.UpdateType)
	grp.Post("/:id/toggle", ctl.ToggleType)
}
