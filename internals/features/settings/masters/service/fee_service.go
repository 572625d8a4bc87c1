package service

import (
	"pmb_backend/internals/features/settings/masters/dto"
	"pmb_backend/internals/features/settings/masters/model"
	helper "pmb_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeeFilter struct {
	ListFilter
	BillingType string
	ProgramID   *uuid.UUID
}

func (s *MasterService) ListFees(f FeeFilter, p helper.Params) ([]dto.FeeRow, int64, error) {
	q := s.DB.Model(&model.FeeModel{})
	if f.IsActive != nil {
		q = q.Where("fee_is_active = ?", *f.IsActive)
	}
	if f.BillingType != "" {
		q = q.Where("fee_billing_type = ?", f.BillingType)
	}
	if f.ProgramID != nil {
		q = q.Where("fee_program_id = ?", *f.ProgramID)
	}
	if f.Search != "" {
		q = q.Where("LOWER(fee_name) LIKE ?", likeLower(f.Search))
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := p.OrderClause(map[string]string{
		"name":       "fee_name",
		"amount":     "fee_amount",
		"created_at": "fee_created_at",
	}, "created_at")
	var fees []model.FeeModel
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&fees).Error; err != nil {
		return nil, 0, err
	}
	rows, err := s.feeRows(fees)
	return rows, total, err
}

func (s *MasterService) feeRows(fees []model.FeeModel) ([]dto.FeeRow, error) {
	ids := make([]uuid.UUID, 0, len(fees))
	for _, f := range fees {
		if f.FeeProgramID != nil {
			ids = append(ids, *f.FeeProgramID)
		}
	}
	names := map[uuid.UUID]string{}
	if len(ids) > 0 {
		var progs []model.ProgramModel
		if err := s.DB.Where("program_id IN ?", ids).Find(&progs).Error; err != nil {
			return nil, err
		}
		for _, p := range progs {
			names[p.ProgramID] = p.ProgramName
		}
	}
	out := make([]dto.FeeRow, 0, len(fees))
	for _, f := range fees {
		var name *string
		if f.FeeProgramID != nil {
			if n, ok := names[*f.FeeProgramID]; ok {
				name = &n
			}
		}
		out = append(out, dto.NewFeeRow(f, name))
	}
	return out, nil
}

func (s *MasterService) checkProgram(id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := s.DB.Model(&model.ProgramModel{}).Where("program_id = ?", *id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownProgram
	}
	return nil
}

func (s *MasterService) oneFee(m model.FeeModel) (*dto.FeeRow, error) {
	rows, err := s.feeRows([]model.FeeModel{m})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (s *MasterService) CreateFee(req dto.FeeRequest) (*dto.FeeRow, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	if err := s.checkProgram(req.ParsedProgramID()); err != nil {
		return nil, err
	}
	m := model.FeeModel{FeeIsActive: true}
	req.ApplyToModel(&m)
	if err := s.DB.Create(&m).Error; err != nil {
		return nil, err
	}
	return s.oneFee(m)
}

func (s *MasterService) UpdateFee(id uuid.UUID, req dto.FeeRequest) (*dto.FeeRow, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	if err := s.checkProgram(req.ParsedProgramID()); err != nil {
		return nil, err
	}
	var m model.FeeModel
	if err := s.DB.Where("fee_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	req.ApplyToModel(&m)
	if err := s.DB.Select("*").Omit("fee_id", "fee_created_at").Updates(&m).Error; err != nil {
		return nil, err
	}
	return s.oneFee(m)
}

func (s *MasterService) ToggleFee(id uuid.UUID) (*dto.FeeRow, error) {
	var m model.FeeModel
	if err := s.DB.Where("fee_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	m.FeeIsActive = !m.FeeIsActive
	if err := s.DB.Model(&m).Update("fee_is_active", m.FeeIsActive).Error; err != nil {
		return nil, err
	}
	return s.oneFee(m)
}
