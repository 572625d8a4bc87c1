package controller

import (
	"pmb_backend/internals/features/candidates/candidates/repository"
	"pmb_backend/internals/features/reports/service"
	helper "pmb_backend/internals/helpers"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReportController struct {
	Svc *service.ReportService
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{Svc: service.NewReportService(db)}
}

func viewer(c *fiber.Ctx) repository.Viewer {
	p := authMw.CurrentPrincipal(c)
	return repository.Viewer{UserID: p.ID, Role: p.Role}
}

// ?campaign_id=&program_id=&academic_year=
func parseFilter(c *fiber.Ctx) (*helper.Filters, service.Filter, error) {
	filters := helper.CollectFilters(c, "campaign_id", "program_id", "academic_year")
	campaign, err := helper.ParseOptionalUUID(filters.Get("campaign_id"), "campaign_id")
	if err != nil {
		return nil, service.Filter{}, err
	}
	program, err := helper.ParseOptionalUUID(filters.Get("program_id"), "program_id")
	if err != nil {
		return nil, service.Filter{}, err
	}
	return filters, service.Filter{CampaignID: campaign, ProgramID: program, AcademicYear: filters.Get("academic_year")}, nil
}

func (h *ReportController) respond(c *fiber.Ctx, run func(repository.Viewer, service.Filter) (any, error)) error {
	filters, f, err := parseFilter(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	data, err := run(viewer(c), f)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "ok",
		"data":    data,
		"filters": filters.Values,
		"query":   filters.Query,
	})
}

// GET /admin/reports/funnel
func (h *ReportController) Funnel(c *fiber.Ctx) error {
	return h.respond(c, func(v repository.Viewer, f service.Filter) (any, error) { return h.Svc.Funnel(v, f) })
}

// GET /admin/reports/campaigns
func (h *ReportController) Campaigns(c *fiber.Ctx) error {
	return h.respond(c, func(v repository.Viewer, f service.Filter) (any, error) { return h.Svc.Campaigns(v, f) })
}

// GET /admin/reports/consultants
func (h *ReportController) Consultants(c *fiber.Ctx) error {
	return h.respond(c, func(v repository.Viewer, f service.Filter) (any, error) { return h.Svc.Consultants(v, f) })
}

// GET /admin/reports/referrers
func (h *ReportController) Referrers(c *fiber.Ctx) error {
	return h.respond(c, func(v repository.Viewer, f service.Filter) (any, error) { return h.Svc.Referrers(v, f) })
}
