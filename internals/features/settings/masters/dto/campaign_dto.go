package dto

import (
	"strings"
	"time"

	"pmb_backend/internals/features/settings/masters/model"
	helper "pmb_backend/internals/helpers"
)

type CampaignRequest struct {
	Name        string  `json:"campaign_name" form:"campaign_name" validate:"required,min=2,max=150"`
	Type        string  `json:"campaign_type" form:"campaign_type" validate:"required,oneof=promo event early_bird scholarship other"`
	Channel     *string `json:"campaign_channel" form:"campaign_channel" validate:"omitempty,max=30"`
	StartDate   string  `json:"campaign_start_date" form:"campaign_start_date"`
	EndDate     string  `json:"campaign_end_date" form:"campaign_end_date"`
	Budget      int64   `json:"campaign_budget" form:"campaign_budget" validate:"gte=0"`
	FeeOverride *int64  `json:"campaign_fee_override" form:"campaign_fee_override" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"campaign_is_active" form:"campaign_is_active"`

	start, end *time.Time
}

// Normalize: tanggal YYYY-MM-DD, jendela tidak boleh terbalik.
func (r *CampaignRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Channel = trimPtr(r.Channel)
	if r.Channel != nil {
		ch := strings.ToLower(*r.Channel)
		r.Channel = &ch
	}
	var err error
	if r.start, err = helper.ParseDate(r.StartDate); err != nil {
		return helper.Invalid("campaign_start_date", "Format tanggal harus YYYY-MM-DD")
	}
	if r.end, err = helper.ParseDate(r.EndDate); err != nil {
		return helper.Invalid("campaign_end_date", "Format tanggal harus YYYY-MM-DD")
	}
	if r.start != nil && r.end != nil && r.end.Before(*r.start) {
		return helper.Invalid("campaign_end_date", "Tanggal selesai tidak boleh sebelum tanggal mulai")
	}
	return nil
}

func (r CampaignRequest) ApplyToModel(m *model.CampaignModel) {
	m.CampaignName = r.Name
	m.CampaignType = r.Type
	m.CampaignChannel = r.Channel
	m.CampaignStartDate = r.start
	m.CampaignEndDate = r.end
	m.CampaignBudget = r.Budget
	m.CampaignFeeOverride = r.FeeOverride
	m.CampaignIsActive = activeOr(r.IsActive, m.CampaignIsActive)
}

// CampaignRow: list kampanye + jumlah kandidat yang teratribusi.
type CampaignRow struct {
	model.CampaignModel
	Running    bool  `json:"running"`
	Candidates int64 `json:"candidates"`
}
