package controller

import (
	"strings"
	"time"

	"pmb_backend/internals/features/announcements/dto"
	"pmb_backend/internals/features/announcements/model"
	helper "pmb_backend/internals/helpers"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AnnouncementController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAnnouncementController(db *gorm.DB) *AnnouncementController {
	return &AnnouncementController{DB: db, Now: time.Now}
}

func (h *AnnouncementController) find(c *fiber.Ctx) (*model.AnnouncementModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.AnnouncementModel
	if err := h.DB.Where("announcement_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ===================== LIST =====================
// GET /admin/announcements?search=&is_active=&date_from=&date_to=
func (h *AnnouncementController) List(c *fiber.Ctx) error {
	filters := helper.CollectFilters(c, "search", "is_active", "date_from", "date_to")
	p := helper.ParseFiber(c, "date", "desc", helper.AdminOpts)

	tx := h.DB.Model(&model.AnnouncementModel{})

	// 1) filter status
	active, err := helper.ParseOptionalBool(filters.Get("is_active"), "is_active")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if active != nil {
		tx = tx.Where("announcement_is_active = ?", *active)
	}

	// 2) rentang tanggal
	from, err := helper.ParseDate(filters.Get("date_from"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "date_from tidak valid (YYYY-MM-DD)")
	}
	if from != nil {
		tx = tx.Where("announcement_date >= ?", *from)
	}
	to, err := helper.ParseDate(filters.Get("date_to"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "date_to tidak valid (YYYY-MM-DD)")
	}
	if to != nil {
		tx = tx.Where("announcement_date <= ?", *to)
	}

	// 3) pencarian judul/isi
	if s := strings.TrimSpace(filters.Get("search")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("(LOWER(announcement_title) LIKE ? OR LOWER(announcement_content) LIKE ?)", like, like)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung data")
	}

	order := p.OrderClause(map[string]string{
		"date":       "announcement_date",
		"title":      "announcement_title",
		"created_at": "announcement_created_at",
	}, "date")
	var rows []model.AnnouncementModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildMeta(total, p), filters)
}

// GET /admin/announcements/:id
func (h *AnnouncementController) Get(c *fiber.Ctx) error {
	m, err := h.find(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

// POST /admin/announcements
func (h *AnnouncementController) Create(c *fiber.Ctx) error {
	var req dto.AnnouncementRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m, err := req.ToModel(authMw.CurrentPrincipal(c).ID, h.Now())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := h.DB.Create(m).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	zap.S().Infow("📢 pengumuman dibuat", "id", m.AnnouncementID, "title", m.AnnouncementTitle)
	return helper.JsonCreated(c, "Pengumuman berhasil dibuat", m)
}

// POST /admin/announcements/:id
func (h *AnnouncementController) Update(c *fiber.Ctx) error {
	m, err := h.find(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.AnnouncementRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	if err := req.ApplyToModel(m, h.Now()); err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := h.DB.Select("*").Omit("announcement_id", "announcement_created_by", "announcement_created_at", "announcement_deleted_at").
		Updates(m).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Pengumuman berhasil diperbarui", m)
}

// POST /admin/announcements/:id/toggle
func (h *AnnouncementController) Toggle(c *fiber.Ctx) error {
	m, err := h.find(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m.AnnouncementIsActive = !m.AnnouncementIsActive
	if err := h.DB.Model(m).Update("announcement_is_active", m.AnnouncementIsActive).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status pengumuman diperbarui", m)
}

// POST /admin/announcements/:id/delete {confirm:true}
func (h *AnnouncementController) Delete(c *fiber.Ctx) error {
	m, err := h.find(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.DeleteRequest
	if err := c.BodyParser(&req); err != nil || !req.Confirm {
		return helper.FromFiberError(c, helper.Invalid("confirm", "Konfirmasi hapus pengumuman"))
	}
	if err := h.DB.Delete(m).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	zap.S().Infow("🗑️ pengumuman dihapus", "id", m.AnnouncementID)
	return helper.JsonDeleted(c, "Pengumuman berhasil dihapus", fiber.Map{"announcement_id": m.AnnouncementID})
}
