package repository

import (
	"errors"

	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/candidates/candidates/model"
	helper "pmb_backend/internals/helpers"
	"pmb_backend/internals/helpers/fieldcrypt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
CandidateRepository hanya membuka kemampuan query yang didukung skema enkripsi:
email & no HP bisa dicari exact-match lewat blind index, nama tidak bisa dicari sama sekali.
*/
type CandidateRepository interface {
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.CandidateModel, error)
	FindVisible(tx *gorm.DB, v Viewer, id uuid.UUID) (*model.CandidateModel, error)
	FindByIdentifier(tx *gorm.DB, identifier string) (*model.CandidateModel, error)
	EmailTaken(tx *gorm.DB, email string, except *uuid.UUID) (bool, error)
	PhoneTaken(tx *gorm.DB, phone string, except *uuid.UUID) (bool, error)
	List(tx *gorm.DB, v Viewer, f ListFilter, p helper.Params) ([]model.CandidateModel, int64, error)
}

// Viewer: staf yang sedang melihat data. Konsultan hanya kandidatnya sendiri,
// supervisor kandidat tim-nya, admin semua.
type Viewer struct {
	UserID uuid.UUID
	Role   string
}

// ListFilter: tidak ada filter nama, Identifier = email atau no HP persis.
type ListFilter struct {
	Status       string
	SourceType   string
	Identifier   string
	ConsultantID *uuid.UUID
	ProgramID    *uuid.UUID
	CampaignID   *uuid.UUID
}

type gormCandidateRepository struct{}

func NewCandidateRepository() CandidateRepository {
	return gormCandidateRepository{}
}

// Scope: batasi query kandidat sesuai role viewer.
func Scope(tx *gorm.DB, v Viewer) *gorm.DB {
	switch v.Role {
	case constants.RoleConsultant:
		return tx.Where("candidates.candidate_consultant_id = ?", v.UserID)
	case constants.RoleSupervisor:
		return tx.Where("candidates.candidate_supervisor_id = ?", v.UserID)
	case constants.RoleAdmin:
		return tx
	}
	// role lain tidak punya akses daftar kandidat
	return tx.Where("1 = 0")
}

func (gormCandidateRepository) FindByID(tx *gorm.DB, id uuid.UUID) (*model.CandidateModel, error) {
	var m model.CandidateModel
	if err := tx.Where("candidate_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindVisible: kandidat di luar cakupan viewer diperlakukan sama dengan tidak ada (404).
func (gormCandidateRepository) FindVisible(tx *gorm.DB, v Viewer, id uuid.UUID) (*model.CandidateModel, error) {
	var m model.CandidateModel
	if err := Scope(tx.Model(&model.CandidateModel{}), v).Where("candidate_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// IdentifierIndex: email → blind index email, selain itu → blind index no HP.
func IdentifierIndex(identifier string) (column, index string, err error) {
	if helper.LooksLikeEmail(identifier) {
		idx, err := fieldcrypt.BlindIndex(helper.NormalizeEmail(identifier))
		return "candidate_email_index", idx, err
	}
	phone := helper.NormalizePhone(identifier)
	if phone == "" {
		return "", "", nil
	}
	idx, err := fieldcrypt.BlindIndex(phone)
	return "candidate_phone_index", idx, err
}

func (gormCandidateRepository) FindByIdentifier(tx *gorm.DB, identifier string) (*model.CandidateModel, error) {
	col, idx, err := IdentifierIndex(identifier)
	if err != nil {
		return nil, err
	}
	if col == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var m model.CandidateModel
	if err := tx.Where(col+" = ?", idx).Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func taken(tx *gorm.DB, column, value string, except *uuid.UUID) (bool, error) {
	idx, err := fieldcrypt.BlindIndex(value)
	if err != nil {
		return false, err
	}
	// soft-deleted tetap memegang unique index
	q := tx.Unscoped().Model(&model.CandidateModel{}).Where(column+" = ?", idx)
	if except != nil {
		q = q.Where("candidate_id <> ?", *except)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (gormCandidateRepository) EmailTaken(tx *gorm.DB, email string, except *uuid.UUID) (bool, error) {
	return taken(tx, "candidate_email_index", helper.NormalizeEmail(email), except)
}

func (gormCandidateRepository) PhoneTaken(tx *gorm.DB, phone string, except *uuid.UUID) (bool, error) {
	return taken(tx, "candidate_phone_index", helper.NormalizePhone(phone), except)
}

func (gormCandidateRepository) List(tx *gorm.DB, v Viewer, f ListFilter, p helper.Params) ([]model.CandidateModel, int64, error) {
	q := Scope(tx.Model(&model.CandidateModel{}), v)
	if f.Status != "" {
		q = q.Where("candidate_status = ?", f.Status)
	}
	if f.SourceType != "" {
		q = q.Where("candidate_source_type = ?", f.SourceType)
	}
	if f.ConsultantID != nil {
		q = q.Where("candidate_consultant_id = ?", *f.ConsultantID)
	}
	if f.ProgramID != nil {
		q = q.Where("candidate_program_id = ?", *f.ProgramID)
	}
	if f.CampaignID != nil {
		q = q.Where("candidate_campaign_id = ?", *f.CampaignID)
	}
	if f.Identifier != "" {
		col, idx, err := IdentifierIndex(f.Identifier)
		if err != nil {
			return nil, 0, err
		}
		if col == "" {
			return []model.CandidateModel{}, 0, nil
		}
		q = q.Where(col+" = ?", idx)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := p.OrderClause(map[string]string{
		"created_at":    "candidate_created_at",
		"registered_at": "candidate_registered_at",
		"followup":      "candidate_next_followup_at",
		"status":        "candidate_status",
	}, "created_at")

	var rows []model.CandidateModel
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// IsNotFound dipakai service untuk membedakan "tidak ada" dari error DB.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
