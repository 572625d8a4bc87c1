package service

import (
	"errors"
	"strings"
	"time"

	"pmb_backend/internals/features/settings/masters/dto"
	"pmb_backend/internals/features/settings/masters/model"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProgramCodeTaken = fiber.NewError(fiber.StatusConflict, "Kode prodi sudah dipakai")
	ErrNameTaken        = fiber.NewError(fiber.StatusConflict, "Nama sudah dipakai")
	ErrUnknownProgram   = helper.Invalid("fee_program_id", "Prodi tidak ditemukan")
)

// MasterService: data master pengaturan (prodi, tarif, kampanye, kategori, alasan batal).
type MasterService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewMasterService(db *gorm.DB) *MasterService {
	return &MasterService{DB: db, Now: time.Now}
}

type ListFilter struct {
	Search   string
	IsActive *bool
}

func likeLower(s string) string { return "%" + strings.ToLower(strings.TrimSpace(s)) + "%" }

func conflict(err error, taken error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return taken
	}
	return err
}

/* =========================================================
   PROGRAMS
========================================================= */

func (s *MasterService) ListPrograms(f ListFilter, p helper.Params) ([]model.ProgramModel, int64, error) {
	q := s.DB.Model(&model.ProgramModel{})
	if f.IsActive != nil {
		q = q.Where("program_is_active = ?", *f.IsActive)
	}
	if f.Search != "" {
		like := likeLower(f.Search)
		q = q.Where("(LOWER(program_name) LIKE ? OR LOWER(program_code) LIKE ? OR LOWER(program_faculty) LIKE ?)", like, like, like)
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := p.OrderClause(map[string]string{
		"code":       "program_code",
		"name":       "program_name",
		"created_at": "program_created_at",
	}, "code")
	var rows []model.ProgramModel
	err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error
	return rows, total, err
}

func (s *MasterService) CreateProgram(req dto.ProgramRequest) (*model.ProgramModel, error) {
	req.Normalize()
	m := &model.ProgramModel{ProgramIsActive: true}
	req.ApplyToModel(m)
	if err := s.DB.Create(m).Error; err != nil {
		return nil, conflict(err, ErrProgramCodeTaken)
	}
	return m, nil
}

func (s *MasterService) UpdateProgram(id uuid.UUID, req dto.ProgramRequest) (*model.ProgramModel, error) {
	req.Normalize()
	var m model.ProgramModel
	if err := s.DB.Where("program_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	req.ApplyToModel(&m)
	if err := s.DB.Select("*").Omit("program_id", "program_created_at").Updates(&m).Error; err != nil {
		return nil, conflict(err, ErrProgramCodeTaken)
	}
	return &m, nil
}

func (s *MasterService) ToggleProgram(id uuid.UUID) (*model.ProgramModel, error) {
	var m model.ProgramModel
	if err := s.DB.Where("program_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	m.ProgramIsActive = !m.ProgramIsActive
	if err := s.DB.Model(&m).Update("program_is_active", m.ProgramIsActive).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ActivePrograms: pilihan prodi di form registrasi & filter.
func (s *MasterService) ActivePrograms() ([]model.ProgramModel, error) {
	var rows []model.ProgramModel
	err := s.DB.Where("program_is_active = ?", true).Order("program_name ASC").Find(&rows).Error
	return rows, err
}
