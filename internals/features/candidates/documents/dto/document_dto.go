package dto

import (
	"fmt"
	"strings"
	"time"

	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/candidates/documents/model"
	helper "pmb_backend/internals/helpers"

	"github.com/google/uuid"
)

/* ===================== PORTAL ===================== */

// Slot: satu baris di halaman dokumen kandidat, termasuk yang belum diunggah.
type Slot struct {
	DocumentID      *uuid.UUID `json:"document_id,omitempty"`
	TypeCode        string     `json:"document_type_code"`
	TypeName        string     `json:"document_type_name"`
	Description     *string    `json:"document_type_description,omitempty"`
	IsRequired      bool       `json:"is_required"`
	CanDefer        bool       `json:"can_defer"`
	Status          string     `json:"status"`
	StatusLabel     string     `json:"status_label"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	RejectionLabel  *string    `json:"rejection_label,omitempty"`
	RejectionNotes  *string    `json:"rejection_notes,omitempty"`
	FileURL         *string    `json:"file_url,omitempty"`
	FileName        *string    `json:"file_name,omitempty"`
	UploadedAt      *time.Time `json:"uploaded_at,omitempty"`
	SizeHint        string     `json:"size_hint"`
	FormatHint      string     `json:"format_hint"`
	Accept          string     `json:"accept"`
	MaxSizeMB       int        `json:"max_size_mb"`
}

func SizeHint(mb int) string {
	return fmt.Sprintf("Maksimal %dMB", mb)
}

// NewSlot: slot dari jenis dokumen + dokumen yang sudah ada (boleh nil).
func NewSlot(t model.DocumentTypeModel, d *model.DocumentModel, maxMB int) Slot {
	s := Slot{
		TypeCode:    t.DocumentTypeCode,
		TypeName:    t.DocumentTypeName,
		Description: t.DocumentTypeDescription,
		IsRequired:  t.DocumentTypeIsRequired,
		CanDefer:    t.DocumentTypeCanDefer,
		Status:      model.DocNotUploaded,
		SizeHint:    SizeHint(maxMB),
		FormatHint:  constants.FormatHint(t.Mimes()),
		Accept:      constants.AcceptAttr(t.Mimes()),
		MaxSizeMB:   maxMB,
	}
	if d != nil {
		id := d.DocumentID
		url := d.DocumentFileURL
		name := d.DocumentFileName
		uploaded := d.DocumentUploadedAt
		s.DocumentID = &id
		s.Status = d.DocumentStatus
		s.FileURL = &url
		s.FileName = &name
		s.UploadedAt = &uploaded
		if d.DocumentStatus == model.DocRejected {
			s.RejectionReason = d.DocumentRejectionReason
			s.RejectionNotes = d.DocumentRejectionNotes
			if d.DocumentRejectionReason != nil {
				if l, ok := model.RejectionLabel(*d.DocumentRejectionReason); ok {
					s.RejectionLabel = &l
				}
			}
		}
	}
	s.StatusLabel = model.DocStatusLabel(s.Status)
	return s
}

/* ===================== ADMIN ===================== */

type RejectRequest struct {
	RejectionReason string `json:"rejection_reason" form:"rejection_reason" validate:"required,oneof=blur incomplete wrong_document expired unreadable other"`
	RejectionNotes  string `json:"rejection_notes" form:"rejection_notes" validate:"required,max=1000"`
}

func (r *RejectRequest) Normalize() error {
	r.RejectionNotes = strings.TrimSpace(r.RejectionNotes)
	if r.RejectionNotes == "" {
		return helper.Invalid("rejection_notes", "Catatan penolakan wajib diisi")
	}
	return nil
}

/* ===================== SETTINGS ===================== */

type DocumentTypeRequest struct {
	Code          string  `json:"document_type_code" form:"document_type_code" validate:"required,max=40"`
	Name          string  `json:"document_type_name" form:"document_type_name" validate:"required,max=120"`
	Description   *string `json:"document_type_description" form:"document_type_description" validate:"omitempty,max=1000"`
	IsRequired    bool    `json:"document_type_is_required" form:"document_type_is_required"`
	CanDefer      bool    `json:"document_type_can_defer" form:"document_type_can_defer"`
	MaxSizeMB     int     `json:"document_type_max_size_mb" form:"document_type_max_size_mb" validate:"omitempty,gte=1,lte=20"` // lte = constants.MaxDocumentSizeMB
	AcceptedMimes string  `json:"document_type_accepted_mimes" form:"document_type_accepted_mimes"`
	SortOrder     int     `json:"document_type_sort_order" form:"document_type_sort_order" validate:"gte=0"`
	IsActive      *bool   `json:"document_type_is_active" form:"document_type_is_active"`
}

// Normalize: kode lower_snake, MIME default PDF/JPG/PNG, hanya MIME yang dikenal.
func (r *DocumentTypeRequest) Normalize() error {
	r.Code = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(r.Code), " ", "_"))
	r.Name = strings.TrimSpace(r.Name)
	if r.MaxSizeMB == 0 {
		r.MaxSizeMB = 5
	}
	if strings.TrimSpace(r.AcceptedMimes) == "" {
		r.AcceptedMimes = strings.Join(constants.DefaultDocumentMimes, ",")
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(r.AcceptedMimes, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !isAllowedMime(p) {
			return helper.Invalid("document_type_accepted_mimes", "Format yang didukung hanya PDF, JPG, PNG")
		}
		parts = append(parts, p)
	}
	r.AcceptedMimes = strings.Join(parts, ",")
	return nil
}

func isAllowedMime(m string) bool {
	for _, x := range constants.DefaultDocumentMimes {
		if x == m {
			return true
		}
	}
	return false
}

func (r DocumentTypeRequest) ApplyToModel(m *model.DocumentTypeModel) {
	m.DocumentTypeCode = r.Code
	m.DocumentTypeName = r.Name
	m.DocumentTypeDescription = r.Description
	m.DocumentTypeIsRequired = r.IsRequired
	m.DocumentTypeCanDefer = r.CanDefer
	m.DocumentTypeMaxSizeMB = r.MaxSizeMB
	m.DocumentTypeAcceptedMimes = r.AcceptedMimes
	m.DocumentTypeSortOrder = r.SortOrder
	if r.IsActive != nil {
		m.DocumentTypeIsActive = *r.IsActive
	}
}
