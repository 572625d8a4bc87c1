package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"pmb_backend/internals/configs"
	"pmb_backend/internals/constants"
	database "pmb_backend/internals/databases"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/candidates/candidates/repository"
	"pmb_backend/internals/features/candidates/documents/dto"
	"pmb_backend/internals/features/candidates/documents/model"
	helper "pmb_backend/internals/helpers"
	oss "pmb_backend/internals/helpers/oss"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUnknownType   = fiber.NewError(fiber.StatusUnprocessableEntity, "Jenis dokumen tidak dikenal")
	ErrEmptyFile     = fiber.NewError(fiber.StatusUnprocessableEntity, "File wajib diunggah")
	ErrNotPending    = fiber.NewError(fiber.StatusConflict, "Dokumen sudah direview")
	ErrTypeCodeTaken = fiber.NewError(fiber.StatusConflict, "Kode jenis dokumen sudah dipakai")
)

type DocumentService struct {
	DB         *gorm.DB
	Blob       oss.BlobService
	Candidates repository.CandidateRepository
	Now        func() time.Time
}

func NewDocumentService(db *gorm.DB, blob oss.BlobService) *DocumentService {
	return &DocumentService{DB: db, Blob: blob, Candidates: repository.NewCandidateRepository(), Now: time.Now}
}

func maxSizeMB(t model.DocumentTypeModel) int {
	if t.DocumentTypeMaxSizeMB > 0 {
		return t.DocumentTypeMaxSizeMB
	}
	return configs.Cfg.UploadMaxMB
}

func (s *DocumentService) activeType(tx *gorm.DB, code string) (*model.DocumentTypeModel, error) {
	var t model.DocumentTypeModel
	err := tx.Where("document_type_code = ? AND document_type_is_active = ?", strings.TrimSpace(code), true).Take(&t).Error
	if repository.IsNotFound(err) {
		return nil, ErrUnknownType
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

/* =========================================================
   PORTAL
========================================================= */

// Slots: semua jenis dokumen aktif, lengkap dengan status unggahan kandidat.
func (s *DocumentService) Slots(candidateID uuid.UUID) ([]dto.Slot, error) {
	var types []model.DocumentTypeModel
	if err := s.DB.Where("document_type_is_active = ?", true).
		Order("document_type_sort_order ASC, document_type_name ASC").
		Find(&types).Error; err != nil {
		return nil, err
	}
	var docs []model.DocumentModel
	if err := s.DB.Where("document_candidate_id = ?", candidateID).Find(&docs).Error; err != nil {
		return nil, err
	}
	byType := make(map[string]*model.DocumentModel, len(docs))
	for i := range docs {
		byType[docs[i].DocumentTypeCode] = &docs[i]
	}

	out := make([]dto.Slot, 0, len(types))
	for _, t := range types {
		out = append(out, dto.NewSlot(t, byType[t.DocumentTypeCode], maxSizeMB(t)))
	}
	return out, nil
}

// Upload: validasi ukuran + format dari isi file, foto dikonversi ke WebP,
// lalu slot (kandidat, jenis) di-upsert ke status pending.
func (s *DocumentService) Upload(ctx context.Context, candidateID uuid.UUID, typeCode, fileName string, data []byte) (*model.DocumentModel, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	t, err := s.activeType(s.DB, typeCode)
	if err != nil {
		return nil, err
	}

	limit := maxSizeMB(*t)
	if int64(len(data)) > int64(limit)*1024*1024 {
		return nil, helper.Invalid("file", fmt.Sprintf("Ukuran file melebihi batas. %s", dto.SizeHint(limit)))
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mime := constants.DetectDocumentMime(head)
	if !t.Accepts(mime) {
		return nil, helper.Invalid("file", "Format file tidak didukung. "+constants.FormatHint(t.Mimes()))
	}

	if constants.IsImageMime(mime) {
		webp, err := oss.ConvertToWebP(data, oss.DocumentWebPOptions)
		if err != nil {
			return nil, helper.Invalid("file", "Gambar tidak bisa dibaca")
		}
		data, mime = webp, constants.MimeWebP
	}

	key := oss.BuildObjectKey("documents/"+t.DocumentTypeCode, constants.ExtForMime(mime))
	url, err := s.Blob.Put(ctx, key, data, mime)
	if err != nil {
		zap.S().Errorw("❌ simpan dokumen gagal", "key", key, "err", err)
		return nil, fiber.NewError(fiber.StatusBadGateway, "Gagal menyimpan file, coba lagi")
	}

	var (
		row    model.DocumentModel
		oldKey string
	)
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var cand candidateModel.CandidateModel
		if err := tx.Select("candidate_id").Where("candidate_id = ?", candidateID).Take(&cand).Error; err != nil {
			return err
		}

		now := s.Now()
		err := database.ForUpdate(tx).
			Where("document_candidate_id = ? AND document_type_code = ?", candidateID, t.DocumentTypeCode).
			Take(&row).Error
		switch {
		case repository.IsNotFound(err):
			row = model.DocumentModel{
				DocumentCandidateID: candidateID,
				DocumentTypeCode:    t.DocumentTypeCode,
			}
		case err != nil:
			return err
		default:
			oldKey = row.DocumentObjectKey
		}

		row.DocumentObjectKey = key
		row.DocumentFileURL = url
		row.DocumentFileName = filepath.Base(strings.TrimSpace(fileName))
		row.DocumentMimeType = mime
		row.DocumentSizeBytes = int64(len(data))
		row.DocumentStatus = model.DocPending
		row.DocumentRejectionReason = nil
		row.DocumentRejectionNotes = nil
		row.DocumentReviewedBy = nil
		row.DocumentReviewedAt = nil
		row.DocumentUploadedAt = now
		return tx.Save(&row).Error
	})
	if err != nil {
		if derr := s.Blob.Delete(ctx, key); derr != nil {
			zap.S().Warnw("⚠️ rollback object gagal", "key", key, "err", derr)
		}
		return nil, err
	}

	if oldKey != "" && oldKey != key {
		if derr := s.Blob.Delete(ctx, oldKey); derr != nil {
			zap.S().Warnw("⚠️ hapus file lama gagal", "key", oldKey, "err", derr)
		}
	}
	zap.S().Infow("📄 dokumen diunggah", "candidate_id", candidateID, "type", t.DocumentTypeCode, "mime", mime)
	return &row, nil
}

/* =========================================================
   ANTRIAN REVIEW (ADMIN)
========================================================= */

type ListFilter struct {
	Status     string
	TypeCode   string
	Identifier string
}

type ReviewRow struct {
	model.DocumentModel
	CandidateName  string  `json:"candidate_name"`
	TypeName       string  `json:"document_type_name"`
	StatusLabel    string  `json:"status_label"`
	RejectionLabel *string `json:"rejection_label,omitempty"`
}

func (s *DocumentService) List(v repository.Viewer, f ListFilter, p helper.Params) ([]ReviewRow, int64, error) {
	q := repository.Scope(
		s.DB.Model(&model.DocumentModel{}).
			Joins("JOIN candidates ON candidates.candidate_id = documents.document_candidate_id AND candidates.candidate_deleted_at IS NULL"),
		v,
	)
	if f.Status != "" {
		q = q.Where("documents.document_status = ?", f.Status)
	}
	if f.TypeCode != "" {
		q = q.Where("documents.document_type_code = ?", f.TypeCode)
	}
	if f.Identifier != "" {
		col, idx, err := repository.IdentifierIndex(f.Identifier)
		if err != nil {
			return nil, 0, err
		}
		if col == "" {
			return []ReviewRow{}, 0, nil
		}
		q = q.Where("candidates."+col+" = ?", idx)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := p.OrderClause(map[string]string{
		"uploaded_at": "documents.document_uploaded_at",
		"status":      "documents.document_status",
		"type":        "documents.document_type_code",
	}, "uploaded_at")

	var docs []model.DocumentModel
	if err := q.Select("documents.*").Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&docs).Error; err != nil {
		return nil, 0, err
	}
	rows, err := s.decorate(docs)
	return rows, total, err
}

// decorate: nama kandidat terenkripsi, jadi dibaca lewat model, bukan JOIN kolom.
func (s *DocumentService) decorate(docs []model.DocumentModel) ([]ReviewRow, error) {
	out := make([]ReviewRow, 0, len(docs))
	if len(docs) == 0 {
		return out, nil
	}
	candIDs := make([]uuid.UUID, 0, len(docs))
	for _, d := range docs {
		candIDs = append(candIDs, d.DocumentCandidateID)
	}
	var cands []candidateModel.CandidateModel
	if err := s.DB.Where("candidate_id IN ?", candIDs).Find(&cands).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(cands))
	for _, c := range cands {
		names[c.CandidateID] = c.CandidateName.String()
	}
	var types []model.DocumentTypeModel
	if err := s.DB.Find(&types).Error; err != nil {
		return nil, err
	}
	typeNames := make(map[string]string, len(types))
	for _, t := range types {
		typeNames[t.DocumentTypeCode] = t.DocumentTypeName
	}

	for _, d := range docs {
		r := ReviewRow{
			DocumentModel: d,
			CandidateName: names[d.DocumentCandidateID],
			TypeName:      typeNames[d.DocumentTypeCode],
			StatusLabel:   model.DocStatusLabel(d.DocumentStatus),
		}
		if d.DocumentRejectionReason != nil {
			if l, ok := model.RejectionLabel(*d.DocumentRejectionReason); ok {
				r.RejectionLabel = &l
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// review: hanya dokumen pending yang bisa diputuskan, kandidat harus dalam cakupan viewer.
func (s *DocumentService) review(v repository.Viewer, id uuid.UUID, updates map[string]any) (*ReviewRow, error) {
	var doc model.DocumentModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := database.ForUpdate(tx).Where("document_id = ?", id).Take(&doc).Error; err != nil {
			return err
		}
		if _, err := s.Candidates.FindVisible(tx, v, doc.DocumentCandidateID); err != nil {
			return err
		}
		if doc.DocumentStatus != model.DocPending {
			return ErrNotPending
		}
		updates["document_reviewed_by"] = v.UserID
		updates["document_reviewed_at"] = s.Now()
		res := tx.Model(&model.DocumentModel{}).
			Where("document_id = ? AND document_status = ?", id, model.DocPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}
		return tx.Where("document_id = ?", id).Take(&doc).Error
	})
	if err != nil {
		return nil, err
	}
	rows, err := s.decorate([]model.DocumentModel{doc})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (s *DocumentService) Approve(v repository.Viewer, id uuid.UUID) (*ReviewRow, error) {
	row, err := s.review(v, id, map[string]any{
		"document_status":           model.DocApproved,
		"document_rejection_reason": nil,
		"document_rejection_notes":  nil,
	})
	if err == nil {
		zap.S().Infow("✅ dokumen disetujui", "document_id", id, "by", v.UserID)
	}
	return row, err
}

func (s *DocumentService) Reject(v repository.Viewer, id uuid.UUID, req dto.RejectRequest) (*ReviewRow, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	row, err := s.review(v, id, map[string]any{
		"document_status":           model.DocRejected,
		"document_rejection_reason": req.RejectionReason,
		"document_rejection_notes":  req.RejectionNotes,
	})
	if err == nil {
		zap.S().Infow("🚫 dokumen ditolak", "document_id", id, "reason", req.RejectionReason)
	}
	return row, err
}

/* =========================================================
   SETTINGS: JENIS DOKUMEN
========================================================= */

func (s *DocumentService) ListTypes() ([]model.DocumentTypeModel, error) {
	var rows []model.DocumentTypeModel
	err := s.DB.Order("document_type_sort_order ASC, document_type_name ASC").Find(&rows).Error
	return rows, err
}

func codeTaken(tx *gorm.DB, code string, except *uuid.UUID) (bool, error) {
	q := tx.Model(&model.DocumentTypeModel{}).Where("document_type_code = ?", code)
	if except != nil {
		q = q.Where("document_type_id <> ?", *except)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (s *DocumentService) CreateType(req dto.DocumentTypeRequest) (*model.DocumentTypeModel, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	if taken, err := codeTaken(s.DB, req.Code, nil); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrTypeCodeTaken
	}
	m := model.DocumentTypeModel{DocumentTypeIsActive: true}
	req.ApplyToModel(&m)
	if err := s.DB.Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateType: kode ikut berubah di dokumen yang sudah terunggah.
func (s *DocumentService) UpdateType(id uuid.UUID, req dto.DocumentTypeRequest) (*model.DocumentTypeModel, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	var m model.DocumentTypeModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_type_id = ?", id).Take(&m).Error; err != nil {
			return err
		}
		if taken, err := codeTaken(tx, req.Code, &id); err != nil {
			return err
		} else if taken {
			return ErrTypeCodeTaken
		}
		oldCode := m.DocumentTypeCode
		req.ApplyToModel(&m)
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		if oldCode != m.DocumentTypeCode {
			return tx.Model(&model.DocumentModel{}).
				Where("document_type_code = ?", oldCode).
				Update("document_type_code", m.DocumentTypeCode).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *DocumentService) ToggleType(id uuid.UUID) (*model.DocumentTypeModel, error) {
	var m model.DocumentTypeModel
	if err := s.DB.Where("document_type_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	m.DocumentTypeIsActive = !m.DocumentTypeIsActive
	if err := s.DB.Model(&m).Update("document_type_is_active", m.DocumentTypeIsActive).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
