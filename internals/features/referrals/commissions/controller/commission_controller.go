package controller

import (
	"bytes"
	"strconv"
	"strings"

	"pmb_backend/internals/features/referrals/commissions/dto"
	commissionModel "pmb_backend/internals/features/referrals/commissions/model"
	"pmb_backend/internals/features/referrals/commissions/service"
	rewardModel "pmb_backend/internals/features/referrals/rewards/model"
	helper "pmb_backend/internals/helpers"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CommissionController struct {
	DB  *gorm.DB
	Svc *service.CommissionService
}

func NewCommissionController(db *gorm.DB) *CommissionController {
	return &CommissionController{DB: db, Svc: service.NewCommissionService(db)}
}

// StatusAll: tanpa filter status.
const StatusAll = "all"

func parseFilter(f *helper.Filters) (service.ListFilter, error) {
	out := service.ListFilter{
		Status:  f.Get("status"),
		Trigger: f.Get("trigger_event"),
		Search:  f.Get("search"),
	}
	if out.Status == StatusAll {
		out.Status = ""
	}
	if out.Status != "" && !commissionModel.IsValidCommissionStatus(out.Status) {
		return out, fiber.NewError(fiber.StatusBadRequest, "status tidak valid")
	}
	if out.Trigger != "" && !contains(rewardModel.TriggerEvents, out.Trigger) {
		return out, fiber.NewError(fiber.StatusBadRequest, "trigger_event tidak valid")
	}
	refID, err := helper.ParseOptionalUUID(f.Get("referrer_id"), "referrer_id")
	if err != nil {
		return out, err
	}
	out.ReferrerID = refID
	return out, nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// GET /admin/commissions?status=&trigger_event=&referrer_id=&search=
func (h *CommissionController) List(c *fiber.Ctx) error {
	filters := helper.CollectFilters(c, "status", "trigger_event", "referrer_id", "search")
	f, err := parseFilter(filters)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	rows, total, err := h.Svc.List(f, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	summary, err := h.Svc.Summary()
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", fiber.Map{"items": rows, "summary": summary}, helper.BuildMeta(total, p), filters)
}

// POST /admin/commissions/:id/approve
func (h *CommissionController) Approve(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.Approve(id, authMw.CurrentPrincipal(c).ID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Komisi disetujui", row)
}

// POST /admin/commissions/:id/pay
func (h *CommissionController) Pay(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.Pay(id, authMw.CurrentPrincipal(c).ID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Komisi ditandai dibayar", row)
}

// POST /admin/commissions/approve {ids}
func (h *CommissionController) ApproveMany(c *fiber.Ctx) error {
	return h.bulk(c, h.Svc.ApproveMany, "komisi disetujui")
}

// POST /admin/commissions/pay {ids}
func (h *CommissionController) PayMany(c *fiber.Ctx) error {
	return h.bulk(c, h.Svc.PayMany, "komisi ditandai dibayar")
}

func (h *CommissionController) bulk(c *fiber.Ctx, fn func(ids []uuid.UUID, by uuid.UUID) (int64, error), msg string) error {
	var req dto.BulkIDsRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	ids, err := req.UUIDs()
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	n, err := fn(ids, authMw.CurrentPrincipal(c).ID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, strconv.FormatInt(n, 10)+" "+msg, fiber.Map{"affected": n})
}

// GET /admin/commissions/export?status=approved
func (h *CommissionController) Export(c *fiber.Ctx) error {
	filters := helper.CollectFilters(c, "status", "trigger_event", "referrer_id", "search")
	f, err := parseFilter(filters)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	// default export: yang siap dibayar
	if strings.TrimSpace(c.Query("status")) == "" {
		f.Status = commissionModel.CommissionApproved
	}

	rows, err := h.Svc.ExportRows(f)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var buf bytes.Buffer
	if err := service.WriteCSV(&buf, rows); err != nil {
		return helper.FromFiberError(c, err)
	}

	name := service.ExportFilename(f.Status, h.Svc.Now())
	zap.S().Infow("📤 export komisi", "status", f.Status, "rows", len(rows), "by", authMw.CurrentPrincipal(c).ID)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}
