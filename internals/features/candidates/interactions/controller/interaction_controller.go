package controller

import (
	"pmb_backend/internals/features/candidates/candidates/repository"
	"pmb_backend/internals/features/candidates/interactions/dto"
	"pmb_backend/internals/features/candidates/interactions/service"
	helper "pmb_backend/internals/helpers"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InteractionController struct {
	Svc *service.InteractionService
}

func NewInteractionController(db *gorm.DB) *InteractionController {
	return &InteractionController{Svc: service.NewInteractionService(db)}
}

func viewer(c *fiber.Ctx) repository.Viewer {
	p := authMw.CurrentPrincipal(c)
	return repository.Viewer{UserID: p.ID, Role: p.Role}
}

// POST /admin/candidates/:id/interaction
func (h *InteractionController) Log(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.LogInteractionRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.Svc.Log(viewer(c), id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonRedirect(c, "Interaksi tersimpan", res.Redirect, res)
}

// GET /admin/candidates/:id/interactions
func (h *InteractionController) List(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := h.Svc.List(viewer(c), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /admin/interactions/:id/suggestion
func (h *InteractionController) Suggest(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.SuggestionRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.Suggest(viewer(c), id, req.Body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Saran terkirim", row)
}

// POST /admin/suggestions/:id/read
func (h *InteractionController) MarkRead(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.MarkRead(authMw.CurrentPrincipal(c).ID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Saran ditandai sudah dibaca", row)
}

// GET /admin/suggestions/unread-count
func (h *InteractionController) UnreadCount(c *fiber.Ctx) error {
	n, err := h.Svc.UnreadCount(authMw.CurrentPrincipal(c).ID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{"unread": n})
}
