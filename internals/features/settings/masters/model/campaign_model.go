package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CampaignPromo       = "promo"
	CampaignEvent       = "event"
	CampaignEarlyBird   = "early_bird"
	CampaignScholarship = "scholarship"
	CampaignOther       = "other"
)

var CampaignTypes = []string{CampaignPromo, CampaignEvent, CampaignEarlyBird, CampaignScholarship, CampaignOther}

// CampaignModel: kampanye promosi, sumber atribusi kandidat + basis hitung ROI.
type CampaignModel struct {
	CampaignID          uuid.UUID  `gorm:"column:campaign_id;type:uuid;primaryKey" json:"campaign_id"`
	CampaignName        string     `gorm:"column:campaign_name;size:150;not null" json:"campaign_name"`
	CampaignType        string     `gorm:"column:campaign_type;size:30;not null" json:"campaign_type"`       // promo, event, early_bird ...
	CampaignChannel     *string    `gorm:"column:campaign_channel;size:30" json:"campaign_channel,omitempty"` // instagram, expo ...
	CampaignStartDate   *time.Time `gorm:"column:campaign_start_date;type:date" json:"campaign_start_date,omitempty"`
	CampaignEndDate     *time.Time `gorm:"column:campaign_end_date;type:date" json:"campaign_end_date,omitempty"`
	CampaignBudget      int64      `gorm:"column:campaign_budget;not null" json:"campaign_budget"`
	CampaignFeeOverride *int64     `gorm:"column:campaign_fee_override" json:"campaign_fee_override,omitempty"` // biaya registrasi khusus
	CampaignIsActive    bool       `gorm:"column:campaign_is_active;not null" json:"campaign_is_active"`
	CampaignCreatedAt   time.Time  `gorm:"column:campaign_created_at;autoCreateTime" json:"campaign_created_at"`
	CampaignUpdatedAt   time.Time  `gorm:"column:campaign_updated_at;autoUpdateTime" json:"campaign_updated_at"`
}

func (CampaignModel) TableName() string { return "campaigns" }

func (m *CampaignModel) BeforeCreate(tx *gorm.DB) error {
	if m.CampaignID == uuid.Nil {
		m.CampaignID = uuid.New()
	}
	return nil
}

// IsRunningOn: aktif dan t masih dalam jendela berlaku (batas kosong = terbuka).
func (m *CampaignModel) IsRunningOn(t time.Time) bool {
	if !m.CampaignIsActive {
		return false
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if m.CampaignStartDate != nil && day.Before(m.CampaignStartDate.UTC()) {
		return false
	}
	if m.CampaignEndDate != nil && day.After(m.CampaignEndDate.UTC()) {
		return false
	}
	return true
}
