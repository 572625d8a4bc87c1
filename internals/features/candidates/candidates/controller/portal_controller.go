package controller

import (
	"pmb_backend/internals/features/candidates/candidates/service"
	helper "pmb_backend/internals/helpers"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PortalController struct {
	Svc *service.PortalService
}

func NewPortalController(db *gorm.DB) *PortalController {
	return &PortalController{Svc: service.NewPortalService(db)}
}

// GET /portal
func (h *PortalController) Dashboard(c *fiber.Ctx) error {
	d, err := h.Svc.Dashboard(authMw.CurrentPrincipal(c).ID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", d)
}
