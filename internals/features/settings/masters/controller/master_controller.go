package controller

import (
	"pmb_backend/internals/features/settings/masters/dto"
	"pmb_backend/internals/features/settings/masters/service"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MasterController struct {
	Svc *service.MasterService
}

func NewMasterController(db *gorm.DB) *MasterController {
	return &MasterController{Svc: service.NewMasterService(db)}
}

func (h *MasterController) listFilter(c *fiber.Ctx, extra ...string) (*helper.Filters, service.ListFilter, error) {
	filters := helper.CollectFilters(c, append([]string{"search", "is_active"}, extra...)...)
	active, err := helper.ParseOptionalBool(filters.Get("is_active"), "is_active")
	if err != nil {
		return nil, service.ListFilter{}, err
	}
	return filters, service.ListFilter{Search: filters.Get("search"), IsActive: active}, nil
}

/* ===================== PROGRAMS ===================== */

// GET /admin/settings/programs?search=&is_active=
func (h *MasterController) ListPrograms(c *fiber.Ctx) error {
	filters, f, err := h.listFilter(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "code", "asc", helper.AdminOpts)
	rows, total, err := h.Svc.ListPrograms(f, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildMeta(total, p), filters)
}

// POST /admin/settings/programs
func (h *MasterController) CreateProgram(c *fiber.Ctx) error {
	var req dto.ProgramRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.CreateProgram(req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Prodi berhasil ditambahkan", row)
}

// POST /admin/settings/programs/:id
func (h *MasterController) UpdateProgram(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.ProgramRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.UpdateProgram(id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Prodi berhasil diperbarui", row)
}

// POST /admin/settings/programs/:id/toggle
func (h *MasterController) ToggleProgram(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.ToggleProgram(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status prodi diperbarui", row)
}
