package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- ENUM status dokumen -----------------------------------------------------
const (
	DocNotUploaded = "not_uploaded"
	DocPending     = "pending"
	DocApproved    = "approved"
	DocRejected    = "rejected"
)

var docStatusLabels = map[string]string{
	DocNotUploaded: "Belum Diunggah",
	DocPending:     "Menunggu Review",
	DocApproved:    "Disetujui",
	DocRejected:    "Ditolak",
}

func DocStatusLabel(s string) string {
	if l, ok := docStatusLabels[s]; ok {
		return l
	}
	return s
}

// --- ENUM alasan penolakan ---------------------------------------------------
var rejectionLabels = map[string]string{
	"blur":           "Gambar buram",
	"incomplete":     "Dokumen tidak lengkap",
	"wrong_document": "Dokumen tidak sesuai",
	"expired":        "Dokumen kedaluwarsa",
	"unreadable":     "Dokumen tidak terbaca",
	"other":          "Lainnya",
}

func RejectionLabel(code string) (string, bool) {
	l, ok := rejectionLabels[code]
	return l, ok
}

// DocumentTypeModel: jenis dokumen yang diminta (ktp, photo, ijazah, transcript, ...).
type DocumentTypeModel struct {
	DocumentTypeID          uuid.UUID `gorm:"column:document_type_id;type:uuid;primaryKey" json:"document_type_id"`
	DocumentTypeCode        string    `gorm:"column:document_type_code;size:40;not null;uniqueIndex:uq_document_types_code" json:"document_type_code"`
	DocumentTypeName        string    `gorm:"column:document_type_name;size:120;not null" json:"document_type_name"`
	DocumentTypeDescription *string   `gorm:"column:document_type_description;type:text" json:"document_type_description,omitempty"`
	DocumentTypeIsRequired  bool      `gorm:"column:document_type_is_required;not null" json:"document_type_is_required"`
	DocumentTypeCanDefer    bool      `gorm:"column:document_type_can_defer;not null" json:"document_type_can_defer"`
	DocumentTypeMaxSizeMB   int       `gorm:"column:document_type_max_size_mb;not null" json:"document_type_max_size_mb"`
	// daftar MIME dipisah koma, mis. "application/pdf,image/jpeg,image/png"
	DocumentTypeAcceptedMimes string    `gorm:"column:document_type_accepted_mimes;size:255;not null" json:"document_type_accepted_mimes"`
	DocumentTypeSortOrder     int       `gorm:"column:document_type_sort_order;not null" json:"document_type_sort_order"`
	DocumentTypeIsActive      bool      `gorm:"column:document_type_is_active;not null" json:"document_type_is_active"`
	DocumentTypeCreatedAt     time.Time `gorm:"column:document_type_created_at;autoCreateTime" json:"document_type_created_at"`
	DocumentTypeUpdatedAt     time.Time `gorm:"column:document_type_updated_at;autoUpdateTime" json:"document_type_updated_at"`
}

func (DocumentTypeModel) TableName() string { return "document_types" }

func (m *DocumentTypeModel) BeforeCreate(tx *gorm.DB) error {
	if m.DocumentTypeID == uuid.Nil {
		m.DocumentTypeID = uuid.New()
	}
	return nil
}

func (m *DocumentTypeModel) Mimes() []string {
	out := []string{}
	for _, p := range strings.Split(m.DocumentTypeAcceptedMimes, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (m *DocumentTypeModel) Accepts(mime string) bool {
	for _, x := range m.Mimes() {
		if x == mime {
			return true
		}
	}
	return false
}

// DocumentModel: satu slot (kandidat, jenis dokumen). Upload ulang menimpa file dan status.
type DocumentModel struct {
	DocumentID              uuid.UUID  `gorm:"column:document_id;type:uuid;primaryKey" json:"document_id"`
	DocumentCandidateID     uuid.UUID  `gorm:"column:document_candidate_id;type:uuid;not null;uniqueIndex:uq_documents_candidate_type,priority:1" json:"document_candidate_id"`
	DocumentTypeCode        string     `gorm:"column:document_type_code;size:40;not null;uniqueIndex:uq_documents_candidate_type,priority:2;index" json:"document_type_code"`
	DocumentObjectKey       string     `gorm:"column:document_object_key;type:text;not null" json:"-"`
	DocumentFileURL         string     `gorm:"column:document_file_url;type:text;not null" json:"document_file_url"`
	DocumentFileName        string     `gorm:"column:document_file_name;size:255" json:"document_file_name"`
	DocumentMimeType        string     `gorm:"column:document_mime_type;size:60;not null" json:"document_mime_type"`
	DocumentSizeBytes       int64      `gorm:"column:document_size_bytes;not null" json:"document_size_bytes"`
	DocumentStatus          string     `gorm:"column:document_status;size:20;not null;index" json:"document_status"`
	DocumentRejectionReason *string    `gorm:"column:document_rejection_reason;size:30" json:"document_rejection_reason,omitempty"`
	DocumentRejectionNotes  *string    `gorm:"column:document_rejection_notes;type:text" json:"document_rejection_notes,omitempty"`
	DocumentReviewedBy      *uuid.UUID `gorm:"column:document_reviewed_by;type:uuid" json:"document_reviewed_by,omitempty"`
	DocumentReviewedAt      *time.Time `gorm:"column:document_reviewed_at" json:"document_reviewed_at,omitempty"`
	DocumentUploadedAt      time.Time  `gorm:"column:document_uploaded_at;not null" json:"document_uploaded_at"`
	DocumentCreatedAt       time.Time  `gorm:"column:document_created_at;autoCreateTime" json:"document_created_at"`
	DocumentUpdatedAt       time.Time  `gorm:"column:document_updated_at;autoUpdateTime" json:"document_updated_at"`
}

func (DocumentModel) TableName() string { return "documents" }

func (m *DocumentModel) BeforeCreate(tx *gorm.DB) error {
	if m.DocumentID == uuid.Nil {
		m.DocumentID = uuid.New()
	}
	return nil
}
