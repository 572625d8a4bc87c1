package service

import (
	"errors"
	"strings"

	"pmb_backend/internals/features/referrals/referrers/dto"
	"pmb_backend/internals/features/referrals/referrers/model"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCodeTaken = fiber.NewError(fiber.StatusConflict, "Kode referral sudah dipakai")

type ReferrerService struct {
	DB *gorm.DB
}

func NewReferrerService(db *gorm.DB) *ReferrerService {
	return &ReferrerService{DB: db}
}

type ListFilter struct {
	Type     string
	Search   string
	IsActive *bool
}

func (s *ReferrerService) List(f ListFilter, p helper.Params) ([]model.ReferrerModel, int64, error) {
	q := s.DB.Model(&model.ReferrerModel{})
	if f.Type != "" {
		q = q.Where("referrer_type = ?", f.Type)
	}
	if f.IsActive != nil {
		q = q.Where("referrer_is_active = ?", *f.IsActive)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("(LOWER(referrer_name) LIKE ? OR LOWER(referrer_code) LIKE ? OR LOWER(referrer_institution) LIKE ?)", like, like, like)
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := p.OrderClause(map[string]string{
		"name":       "referrer_name",
		"created_at": "referrer_created_at",
	}, "created_at")
	var rows []model.ReferrerModel
	err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error
	return rows, total, err
}

// Create dipakai settings dan link klaim (referrer baru). tx boleh transaksi pemanggil.
func (s *ReferrerService) Create(tx *gorm.DB, req dto.ReferrerRequest) (*model.ReferrerModel, error) {
	req.Normalize()
	if err := req.CheckPayout(); err != nil {
		return nil, err
	}
	m := req.ToModel()
	if err := tx.Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCodeTaken
		}
		return nil, err
	}
	return m, nil
}

func (s *ReferrerService) Update(id uuid.UUID, req dto.ReferrerRequest) (*model.ReferrerModel, error) {
	req.Normalize()
	if err := req.CheckPayout(); err != nil {
		return nil, err
	}
	var m model.ReferrerModel
	if err := s.DB.Where("referrer_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	req.ApplyToModel(&m)
	if err := s.DB.Select("*").Omit("referrer_id", "referrer_created_at", "referrer_deleted_at").Updates(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCodeTaken
		}
		return nil, err
	}
	return &m, nil
}

func (s *ReferrerService) Toggle(id uuid.UUID) (*model.ReferrerModel, error) {
	var m model.ReferrerModel
	if err := s.DB.Where("referrer_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	m.ReferrerIsActive = !m.ReferrerIsActive
	if err := s.DB.Model(&m).Update("referrer_is_active", m.ReferrerIsActive).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *ReferrerService) Get(id uuid.UUID) (*model.ReferrerModel, error) {
	var m model.ReferrerModel
	if err := s.DB.Where("referrer_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindActiveByCode: kode referral saat registrasi. Tidak ketemu → nil, nil.
func FindActiveByCode(tx *gorm.DB, code string) (*model.ReferrerModel, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}
	var m model.ReferrerModel
	err := tx.Where("referrer_code = ? AND referrer_is_active = ?", code, true).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
