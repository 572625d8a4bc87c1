package controller

import (
	"pmb_backend/internals/features/settings/masters/dto"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

/* ===================== CATEGORIES ===================== */

// GET /admin/settings/categories?is_active=
func (h *MasterController) ListCategories(c *fiber.Ctx) error {
	active, err := helper.ParseOptionalBool(c.Query("is_active"), "is_active")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := h.Svc.ListCategories(active)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /admin/settings/categories
func (h *MasterController) CreateCategory(c *fiber.Ctx) error {
	var req dto.LookupRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.CreateCategory(req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Kategori berhasil ditambahkan", row)
}

// POST /admin/settings/categories/:id
func (h *MasterController) UpdateCategory(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.LookupRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.UpdateCategory(id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Kategori berhasil diperbarui", row)
}

// POST /admin/settings/categories/:id/toggle
func (h *MasterController) ToggleCategory(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.ToggleCategory(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status kategori diperbarui", row)
}

/* ===================== LOST REASONS ===================== */

// GET /admin/settings/lost-reasons?is_active=
func (h *MasterController) ListLostReasons(c *fiber.Ctx) error {
	active, err := helper.ParseOptionalBool(c.Query("is_active"), "is_active")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := h.Svc.ListLostReasons(active)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /admin/settings/lost-reasons
func (h *MasterController) CreateLostReason(c *fiber.Ctx) error {
	var req dto.LookupRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.CreateLostReason(req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Alasan batal berhasil ditambahkan", row)
}

// POST /admin/settings/lost-reasons/:id
func (h *MasterController) UpdateLostReason(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.LookupRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.UpdateLostReason(id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Alasan batal berhasil diperbarui", row)
}

// POST /admin/settings/lost-reasons/:id/toggle
func (h *MasterController) ToggleLostReason(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.ToggleLostReason(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status alasan batal diperbarui", row)
}
