package controller

import (
	"pmb_backend/internals/features/assignment/service"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AssignmentController struct {
	DB  *gorm.DB
	Svc *service.AssignmentService
}

func NewAssignmentController(db *gorm.DB) *AssignmentController {
	return &AssignmentController{DB: db, Svc: service.NewAssignmentService(db)}
}

// GET /admin/settings/assignment
func (h *AssignmentController) List(c *fiber.Ctx) error {
	rows, err := h.Svc.List()
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	active := ""
	for _, r := range rows {
		if r.AssignmentAlgorithmIsActive {
			active = r.AssignmentAlgorithmCode
		}
	}
	loads, err := h.Svc.ConsultantLoads(h.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"algorithms":  rows,
		"active_code": active,
		"consultants": loads,
	})
}

// POST /admin/settings/assignment/:id/activate
func (h *AssignmentController) Activate(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.Activate(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Algoritma "+row.AssignmentAlgorithmName+" diaktifkan", row)
}
