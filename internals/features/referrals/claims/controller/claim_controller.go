package controller

import (
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/referrals/claims/dto"
	"pmb_backend/internals/features/referrals/claims/service"
	helper "pmb_backend/internals/helpers"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ClaimController struct {
	Svc *service.ClaimService
}

func NewClaimController(db *gorm.DB) *ClaimController {
	return &ClaimController{Svc: service.NewClaimService(db)}
}

// GET /admin/referral-claims?source_type=
func (h *ClaimController) List(c *fiber.Ctx) error {
	filters := helper.CollectFilters(c, "source_type")
	if st := filters.Get("source_type"); st != "" && !candidateModel.IsReferralSource(st) {
		return helper.JsonError(c, fiber.StatusBadRequest, "source_type tidak valid")
	}
	p := helper.ParseFiber(c, "created_at", "asc", helper.AdminOpts)

	rows, total, err := h.Svc.Pending(filters.Get("source_type"), p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildMeta(total, p), filters)
}

// POST /admin/referral-claims/:id/link
func (h *ClaimController) Link(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.LinkClaimRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.Svc.Link(id, req, authMw.CurrentPrincipal(c).ID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Klaim referral berhasil dihubungkan", res)
}

// POST /admin/referral-claims/:id/invalid
func (h *ClaimController) Invalidate(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.InvalidClaimRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.Invalidate(id, req, authMw.CurrentPrincipal(c).ID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Klaim referral ditandai tidak valid", row)
}
