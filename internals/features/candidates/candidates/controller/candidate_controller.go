package controller

import (
	"pmb_backend/internals/features/candidates/candidates/dto"
	"pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/candidates/candidates/repository"
	"pmb_backend/internals/features/candidates/candidates/service"
	helper "pmb_backend/internals/helpers"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CandidateController struct {
	Svc *service.CandidateService
}

func NewCandidateController(db *gorm.DB) *CandidateController {
	return &CandidateController{Svc: service.NewCandidateService(db)}
}

func viewer(c *fiber.Ctx) repository.Viewer {
	p := authMw.CurrentPrincipal(c)
	return repository.Viewer{UserID: p.ID, Role: p.Role}
}

// GET /admin/candidates?status=&source_type=&search=&consultant_id=&prodi_id=&campaign_id=
func (h *CandidateController) List(c *fiber.Ctx) error {
	filters := helper.CollectFilters(c, "status", "source_type", "search", "consultant_id", "prodi_id", "campaign_id")

	f := repository.ListFilter{
		Status:     filters.Get("status"),
		SourceType: filters.Get("source_type"),
		Identifier: filters.Get("search"),
	}
	if f.Status != "" && !model.IsValidStatus(f.Status) {
		return helper.JsonError(c, fiber.StatusBadRequest, "status tidak valid")
	}
	var err error
	if f.ConsultantID, err = helper.ParseOptionalUUID(filters.Get("consultant_id"), "consultant_id"); err != nil {
		return helper.FromFiberError(c, err)
	}
	if f.ProgramID, err = helper.ParseOptionalUUID(filters.Get("prodi_id"), "prodi_id"); err != nil {
		return helper.FromFiberError(c, err)
	}
	if f.CampaignID, err = helper.ParseOptionalUUID(filters.Get("campaign_id"), "campaign_id"); err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	rows, total, err := h.Svc.List(viewer(c), f, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildMeta(total, p), filters)
}

// GET /admin/candidates/:id
func (h *CandidateController) Detail(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	d, err := h.Svc.Detail(viewer(c), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", d)
}

// POST /admin/candidates/:id/status
func (h *CandidateController) UpdateStatus(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.StatusRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m, err := h.Svc.UpdateStatus(viewer(c), id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status kandidat diperbarui", fiber.Map{
		"candidate_id":           m.CandidateID,
		"candidate_status":       m.CandidateStatus,
		"candidate_status_label": model.StatusLabel(m.CandidateStatus),
		"allowed_transitions":    service.AllowedTransitions(m.CandidateStatus),
	})
}

// GET /admin/candidates/:id/reassign
func (h *CandidateController) ReassignOptions(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	opts, err := h.Svc.Options(viewer(c), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", opts)
}

// POST /admin/candidates/:id/reassign
func (h *CandidateController) Reassign(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.ReassignRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m, err := h.Svc.Reassign(viewer(c), id, req.ParsedConsultantID())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Kandidat berhasil dialihkan", fiber.Map{
		"candidate_id":            m.CandidateID,
		"candidate_consultant_id": m.CandidateConsultantID,
		"candidate_supervisor_id": m.CandidateSupervisorID,
	})
}
