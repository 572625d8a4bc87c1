package service

import (
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/settings/masters/dto"
	"pmb_backend/internals/features/settings/masters/model"
	helper "pmb_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CampaignFilter struct {
	ListFilter
	Type string
}

func (s *MasterService) ListCampaigns(f CampaignFilter, p helper.Params) ([]dto.CampaignRow, int64, error) {
	q := s.DB.Model(&model.CampaignModel{})
	if f.IsActive != nil {
		q = q.Where("campaign_is_active = ?", *f.IsActive)
	}
	if f.Type != "" {
		q = q.Where("campaign_type = ?", f.Type)
	}
	if f.Search != "" {
		like := likeLower(f.Search)
		q = q.Where("(LOWER(campaign_name) LIKE ? OR LOWER(campaign_channel) LIKE ?)", like, like)
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := p.OrderClause(map[string]string{
		"name":       "campaign_name",
		"start_date": "campaign_start_date",
		"created_at": "campaign_created_at",
	}, "created_at")
	var camps []model.CampaignModel
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&camps).Error; err != nil {
		return nil, 0, err
	}
	rows, err := s.campaignRows(camps)
	return rows, total, err
}

func (s *MasterService) campaignRows(camps []model.CampaignModel) ([]dto.CampaignRow, error) {
	ids := make([]uuid.UUID, 0, len(camps))
	for _, c := range camps {
		ids = append(ids, c.CampaignID)
	}
	type agg struct {
		CampaignID uuid.UUID
		N          int64
	}
	var counts []agg
	if len(ids) > 0 {
		if err := s.DB.Model(&candidateModel.CandidateModel{}).
			Select("candidate_campaign_id AS campaign_id, COUNT(*) AS n").
			Where("candidate_campaign_id IN ?", ids).
			Group("candidate_campaign_id").
			Scan(&counts).Error; err != nil {
			return nil, err
		}
	}
	byID := map[uuid.UUID]int64{}
	for _, a := range counts {
		byID[a.CampaignID] = a.N
	}
	now := s.Now()
	out := make([]dto.CampaignRow, 0, len(camps))
	for _, c := range camps {
		out = append(out, dto.CampaignRow{CampaignModel: c, Running: c.IsRunningOn(now), Candidates: byID[c.CampaignID]})
	}
	return out, nil
}

func (s *MasterService) oneCampaign(m model.CampaignModel) (*dto.CampaignRow, error) {
	rows, err := s.campaignRows([]model.CampaignModel{m})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (s *MasterService) CreateCampaign(req dto.CampaignRequest) (*dto.CampaignRow, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	m := model.CampaignModel{CampaignIsActive: true}
	req.ApplyToModel(&m)
	if err := s.DB.Create(&m).Error; err != nil {
		return nil, err
	}
	return s.oneCampaign(m)
}

func (s *MasterService) UpdateCampaign(id uuid.UUID, req dto.CampaignRequest) (*dto.CampaignRow, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	var m model.CampaignModel
	if err := s.DB.Where("campaign_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	req.ApplyToModel(&m)
	if err := s.DB.Select("*").Omit("campaign_id", "campaign_created_at").Updates(&m).Error; err != nil {
		return nil, err
	}
	return s.oneCampaign(m)
}

func (s *MasterService) ToggleCampaign(id uuid.UUID) (*dto.CampaignRow, error) {
	var m model.CampaignModel
	if err := s.DB.Where("campaign_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	m.CampaignIsActive = !m.CampaignIsActive
	if err := s.DB.Model(&m).Update("campaign_is_active", m.CampaignIsActive).Error; err != nil {
		return nil, err
	}
	return s.oneCampaign(m)
}
