package controller

import (
	"io"

	"pmb_backend/internals/features/candidates/candidates/repository"
	"pmb_backend/internals/features/candidates/documents/dto"
	"pmb_backend/internals/features/candidates/documents/model"
	"pmb_backend/internals/features/candidates/documents/service"
	helper "pmb_backend/internals/helpers"
	oss "pmb_backend/internals/helpers/oss"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DocumentController struct {
	Svc *service.DocumentService
}

func NewDocumentController(db *gorm.DB, blob oss.BlobService) *DocumentController {
	return &DocumentController{Svc: service.NewDocumentService(db, blob)}
}

func viewer(c *fiber.Ctx) repository.Viewer {
	p := authMw.CurrentPrincipal(c)
	return repository.Viewer{UserID: p.ID, Role: p.Role}
}

/* ===================== PORTAL ===================== */

// GET /portal/documents
func (h *DocumentController) Slots(c *fiber.Ctx) error {
	slots, err := h.Svc.Slots(authMw.CurrentPrincipal(c).ID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", slots)
}

// POST /portal/documents/upload (multipart: document_type, file)
func (h *DocumentController) Upload(c *fiber.Ctx) error {
	typeCode := c.FormValue("document_type")
	if typeCode == "" {
		return helper.FromFiberError(c, helper.Invalid("document_type", "Jenis dokumen wajib dipilih"))
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.FromFiberError(c, helper.Invalid("file", "File wajib diunggah"))
	}
	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File tidak bisa dibaca")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File tidak bisa dibaca")
	}

	doc, err := h.Svc.Upload(c.UserContext(), authMw.CurrentPrincipal(c).ID, typeCode, fh.Filename, data)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Dokumen terunggah, menunggu review", fiber.Map{
		"document":     doc,
		"status_label": model.DocStatusLabel(doc.DocumentStatus),
	})
}

/* ===================== ADMIN ===================== */

// GET /admin/documents?status=&type=&search=
func (h *DocumentController) List(c *fiber.Ctx) error {
	filters := helper.CollectFilters(c, "status", "type", "search")
	f := service.ListFilter{
		Status:     filters.Get("status"),
		TypeCode:   filters.Get("type"),
		Identifier: filters.Get("search"),
	}
	switch f.Status {
	case "", model.DocPending, model.DocApproved, model.DocRejected:
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "status tidak valid")
	}

	p := helper.ParseFiber(c, "uploaded_at", "asc", helper.AdminOpts)
	rows, total, err := h.Svc.List(viewer(c), f, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildMeta(total, p), filters)
}

// POST /admin/documents/:id/approve
func (h *DocumentController) Approve(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.Approve(viewer(c), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Dokumen disetujui", row)
}

// POST /admin/documents/:id/reject
func (h *DocumentController) Reject(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.RejectRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.Reject(viewer(c), id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Dokumen ditolak", row)
}

/* ===================== SETTINGS ===================== */

// GET /admin/settings/document-types
func (h *DocumentController) ListTypes(c *fiber.Ctx) error {
	rows, err := h.Svc.ListTypes()
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /admin/settings/document-types
func (h *DocumentController) CreateType(c *fiber.Ctx) error {
	var req dto.DocumentTypeRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m, err := h.Svc.CreateType(req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Jenis dokumen dibuat", m)
}

// POST /admin/settings/document-types/:id
func (h *DocumentController) UpdateType(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.DocumentTypeRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m, err := h.Svc.UpdateType(id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Jenis dokumen diperbarui", m)
}

// POST /admin/settings/document-types/:id/toggle
func (h *DocumentController) ToggleType(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := h.Svc.ToggleType(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status jenis dokumen diubah", m)
}
