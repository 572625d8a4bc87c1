package controller

import (
	"pmb_backend/internals/features/settings/masters/dto"
	"pmb_backend/internals/features/settings/masters/model"
	"pmb_backend/internals/features/settings/masters/service"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

// GET /admin/settings/campaigns?type=&search=&is_active=
func (h *MasterController) ListCampaigns(c *fiber.Ctx) error {
	filters, f, err := h.listFilter(c, "type")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	rows, total, err := h.Svc.ListCampaigns(service.CampaignFilter{ListFilter: f, Type: filters.Get("type")}, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", fiber.Map{"items": rows, "types": model.CampaignTypes}, helper.BuildMeta(total, p), filters)
}

// POST /admin/settings/campaigns
func (h *MasterController) CreateCampaign(c *fiber.Ctx) error {
	var req dto.CampaignRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.CreateCampaign(req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Kampanye berhasil ditambahkan", row)
}

// POST /admin/settings/campaigns/:id
func (h *MasterController) UpdateCampaign(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CampaignRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.UpdateCampaign(id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Kampanye berhasil diperbarui", row)
}

// POST /admin/settings/campaigns/:id/toggle
func (h *MasterController) ToggleCampaign(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.ToggleCampaign(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status kampanye diperbarui", row)
}
