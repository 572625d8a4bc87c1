package controller

import (
	billingModel "pmb_backend/internals/features/finance/billings/model"
	"pmb_backend/internals/features/settings/masters/dto"
	"pmb_backend/internals/features/settings/masters/service"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

// GET /admin/settings/fees?billing_type=&program_id=&search=&is_active=
func (h *MasterController) ListFees(c *fiber.Ctx) error {
	filters, f, err := h.listFilter(c, "billing_type", "program_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	prog, err := helper.ParseOptionalUUID(filters.Get("program_id"), "program_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	rows, total, err := h.Svc.ListFees(service.FeeFilter{
		ListFilter:  f,
		BillingType: filters.Get("billing_type"),
		ProgramID:   prog,
	}, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", fiber.Map{"items": rows, "billing_types": billingModel.BillingTypes}, helper.BuildMeta(total, p), filters)
}

// POST /admin/settings/fees
func (h *MasterController) CreateFee(c *fiber.Ctx) error {
	var req dto.FeeRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.CreateFee(req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Tarif berhasil ditambahkan", row)
}

// POST /admin/settings/fees/:id
func (h *MasterController) UpdateFee(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.FeeRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.UpdateFee(id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Tarif berhasil diperbarui", row)
}

// POST /admin/settings/fees/:id/toggle
func (h *MasterController) ToggleFee(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.ToggleFee(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status tarif diperbarui", row)
}
