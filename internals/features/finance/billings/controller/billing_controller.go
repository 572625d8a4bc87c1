package controller

import (
	"pmb_backend/internals/features/finance/billings/dto"
	"pmb_backend/internals/features/finance/billings/model"
	"pmb_backend/internals/features/finance/billings/service"
	helper "pmb_backend/internals/helpers"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BillingController struct {
	Svc *service.BillingService
}

func NewBillingController(db *gorm.DB) *BillingController {
	return &BillingController{Svc: service.NewBillingService(db)}
}

func isOneOf(v string, list []string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// GET /admin/finance/billings?status=&type=&search=
func (h *BillingController) List(c *fiber.Ctx) error {
	filters := helper.CollectFilters(c, "status", "type", "search")
	f := service.ListFilter{
		Status:     filters.Get("status"),
		Type:       filters.Get("type"),
		Identifier: filters.Get("search"),
	}
	if f.Status != "" && !isOneOf(f.Status, model.BillingStatuses) {
		return helper.JsonError(c, fiber.StatusBadRequest, "status tidak valid")
	}
	if f.Type != "" && !isOneOf(f.Type, model.BillingTypes) {
		return helper.JsonError(c, fiber.StatusBadRequest, "jenis tagihan tidak valid")
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	rows, total, err := h.Svc.List(f, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildMeta(total, p), filters)
}

// GET /admin/finance/billings/create?candidate_id=
func (h *BillingController) CreateForm(c *fiber.Ctx) error {
	id, err := helper.ParseOptionalUUID(c.Query("candidate_id"), "candidate_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if id == nil {
		return helper.FromFiberError(c, helper.Invalid("candidate_id", "Kandidat wajib dipilih"))
	}
	form, err := h.Svc.CreateForm(*id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", form)
}

// GET /admin/finance/billings/:id
func (h *BillingController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.Get(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", row)
}

// POST /admin/finance/billings
func (h *BillingController) Create(c *fiber.Ctx) error {
	var req dto.CreateBillingRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.Create(authMw.CurrentPrincipal(c).ID, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Tagihan dibuat", row)
}

// POST /admin/finance/billings/:id
func (h *BillingController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.UpdateBillingRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.Update(id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Tagihan diperbarui", row)
}

// POST /admin/finance/billings/:id/cancel
func (h *BillingController) Cancel(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CancelBillingRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.Cancel(id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Tagihan dibatalkan", row)
}

// POST /admin/finance/billings/:id/mark-paid
func (h *BillingController) MarkPaid(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.MarkPaid(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Tagihan ditandai lunas", row)
}

// GET /portal/billings
func (h *BillingController) Portal(c *fiber.Ctx) error {
	rows, err := h.Svc.ForCandidate(authMw.CurrentPrincipal(c).ID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}
