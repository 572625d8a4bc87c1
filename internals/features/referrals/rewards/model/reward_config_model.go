package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- ENUM reward & trigger ---------------------------------------------------
const (
	RewardCommission  = "commission"
	RewardMerchandise = "merchandise"
)

var RewardTypes = []string{RewardCommission, RewardMerchandise}

const (
	TriggerRegistration = "registration"
	TriggerPayment      = "payment"
	TriggerCommitment   = "commitment"
	TriggerEnrollment   = "enrollment"
)

var TriggerEvents = []string{TriggerRegistration, TriggerPayment, TriggerCommitment, TriggerEnrollment}

// RewardConfigModel: nominal reward per (tipe referrer, tipe reward, trigger).
type RewardConfigModel struct {
	RewardConfigID           uuid.UUID `gorm:"column:reward_config_id;type:uuid;primaryKey" json:"reward_config_id"`
	RewardConfigReferrerType string    `gorm:"column:reward_config_referrer_type;size:20;not null;uniqueIndex:uq_reward_configs_key,priority:1" json:"reward_config_referrer_type"`
	RewardConfigRewardType   string    `gorm:"column:reward_config_reward_type;size:20;not null;uniqueIndex:uq_reward_configs_key,priority:2" json:"reward_config_reward_type"`
	RewardConfigTriggerEvent string    `gorm:"column:reward_config_trigger_event;size:20;not null;uniqueIndex:uq_reward_configs_key,priority:3" json:"reward_config_trigger_event"`
	RewardConfigAmount       int64     `gorm:"column:reward_config_amount;not null" json:"reward_config_amount"`
	RewardConfigDescription  *string   `gorm:"column:reward_config_description;type:text" json:"reward_config_description,omitempty"`
	RewardConfigIsActive     bool      `gorm:"column:reward_config_is_active;not null" json:"reward_config_is_active"`
	RewardConfigCreatedAt    time.Time `gorm:"column:reward_config_created_at;autoCreateTime" json:"reward_config_created_at"`
	RewardConfigUpdatedAt    time.Time `gorm:"column:reward_config_updated_at;autoUpdateTime" json:"reward_config_updated_at"`
}

func (RewardConfigModel) TableName() string { return "reward_configs" }

func (m *RewardConfigModel) BeforeCreate(tx *gorm.DB) error {
	if m.RewardConfigID == uuid.Nil {
		m.RewardConfigID = uuid.New()
	}
	return nil
}

// MGMRewardConfigModel: Member-Get-Member, dikunci per tahun akademik (referrer mahasiswa).
type MGMRewardConfigModel struct {
	MGMRewardConfigID           uuid.UUID `gorm:"column:mgm_reward_config_id;type:uuid;primaryKey" json:"mgm_reward_config_id"`
	MGMRewardConfigAcademicYear string    `gorm:"column:mgm_reward_config_academic_year;size:9;not null;uniqueIndex:uq_mgm_reward_configs_key,priority:1" json:"mgm_reward_config_academic_year"`
	MGMRewardConfigRewardType   string    `gorm:"column:mgm_reward_config_reward_type;size:20;not null;uniqueIndex:uq_mgm_reward_configs_key,priority:2" json:"mgm_reward_config_reward_type"`
	MGMRewardConfigTriggerEvent string    `gorm:"column:mgm_reward_config_trigger_event;size:20;not null;uniqueIndex:uq_mgm_reward_configs_key,priority:3" json:"mgm_reward_config_trigger_event"`
	MGMRewardConfigAmount       int64     `gorm:"column:mgm_reward_config_amount;not null" json:"mgm_reward_config_amount"`
	MGMRewardConfigDescription  *string   `gorm:"column:mgm_reward_config_description;type:text" json:"mgm_reward_config_description,omitempty"`
	MGMRewardConfigIsActive     bool      `gorm:"column:mgm_reward_config_is_active;not null" json:"mgm_reward_config_is_active"`
	MGMRewardConfigCreatedAt    time.Time `gorm:"column:mgm_reward_config_created_at;autoCreateTime" json:"mgm_reward_config_created_at"`
	MGMRewardConfigUpdatedAt    time.Time `gorm:"column:mgm_reward_config_updated_at;autoUpdateTime" json:"mgm_reward_config_updated_at"`
}

func (MGMRewardConfigModel) TableName() string { return "mgm_reward_configs" }

func (m *MGMRewardConfigModel) BeforeCreate(tx *gorm.DB) error {
	if m.MGMRewardConfigID == uuid.Nil {
		m.MGMRewardConfigID = uuid.New()
	}
	return nil
}
