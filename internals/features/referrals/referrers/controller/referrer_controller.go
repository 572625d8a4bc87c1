package controller

import (
	"pmb_backend/internals/features/referrals/referrers/dto"
	"pmb_backend/internals/features/referrals/referrers/model"
	"pmb_backend/internals/features/referrals/referrers/service"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReferrerController struct {
	DB  *gorm.DB
	Svc *service.ReferrerService
}

func NewReferrerController(db *gorm.DB) *ReferrerController {
	return &ReferrerController{DB: db, Svc: service.NewReferrerService(db)}
}

// GET /admin/settings/referrers?type=&search=&is_active=
func (h *ReferrerController) List(c *fiber.Ctx) error {
	filters := helper.CollectFilters(c, "type", "search", "is_active")
	active, err := helper.ParseOptionalBool(filters.Get("is_active"), "is_active")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	rows, total, err := h.Svc.List(service.ListFilter{
		Type:     filters.Get("type"),
		Search:   filters.Get("search"),
		IsActive: active,
	}, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", fiber.Map{"items": rows, "types": model.Types}, helper.BuildMeta(total, p), filters)
}

// GET /admin/settings/referrers/:id
func (h *ReferrerController) Get(c *fiber.Ctx) error {
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

// POST /admin/settings/referrers
func (h *ReferrerController) Create(c *fiber.Ctx) error {
	var req dto.ReferrerRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.Create(h.DB, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Referrer berhasil ditambahkan", row)
}

// POST /admin/settings/referrers/:id
func (h *ReferrerController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.ReferrerRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.Update(id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Referrer berhasil diperbarui", row)
}

// POST /admin/settings/referrers/:id/toggle
func (h *ReferrerController) Toggle(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.Toggle(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status referrer diperbarui", row)
}
