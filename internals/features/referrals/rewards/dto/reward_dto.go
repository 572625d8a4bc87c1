package dto

import (
	"fmt"
	"strconv"
	"strings"

	"pmb_backend/internals/features/referrals/rewards/model"
	helper "pmb_backend/internals/helpers"
)

type RewardConfigRequest struct {
	ReferrerType string  `json:"reward_config_referrer_type" form:"reward_config_referrer_type" validate:"required,oneof=alumni teacher student partner staff"`
	RewardType   string  `json:"reward_config_reward_type" form:"reward_config_reward_type" validate:"required,oneof=commission merchandise"`
	TriggerEvent string  `json:"reward_config_trigger_event" form:"reward_config_trigger_event" validate:"required,oneof=registration payment commitment enrollment"`
	Amount       int64   `json:"reward_config_amount" form:"reward_config_amount" validate:"gte=0"`
	Description  *string `json:"reward_config_description" form:"reward_config_description"`
	IsActive     *bool   `json:"reward_config_is_active" form:"reward_config_is_active"`
}

func (r RewardConfigRequest) ApplyToModel(m *model.RewardConfigModel) {
	m.RewardConfigReferrerType = r.ReferrerType
	m.RewardConfigRewardType = r.RewardType
	m.RewardConfigTriggerEvent = r.TriggerEvent
	m.RewardConfigAmount = r.Amount
	m.RewardConfigDescription = r.Description
	if r.IsActive != nil {
		m.RewardConfigIsActive = *r.IsActive
	}
}

type MGMRewardConfigRequest struct {
	AcademicYear string  `json:"mgm_reward_config_academic_year" form:"mgm_reward_config_academic_year" validate:"required,len=9"`
	RewardType   string  `json:"mgm_reward_config_reward_type" form:"mgm_reward_config_reward_type" validate:"required,oneof=commission merchandise"`
	TriggerEvent string  `json:"mgm_reward_config_trigger_event" form:"mgm_reward_config_trigger_event" validate:"required,oneof=registration payment commitment enrollment"`
	Amount       int64   `json:"mgm_reward_config_amount" form:"mgm_reward_config_amount" validate:"gte=0"`
	Description  *string `json:"mgm_reward_config_description" form:"mgm_reward_config_description"`
	IsActive     *bool   `json:"mgm_reward_config_is_active" form:"mgm_reward_config_is_active"`
}

// CheckAcademicYear: format "2026/2027", tahun kedua = tahun pertama + 1.
func (r *MGMRewardConfigRequest) CheckAcademicYear() error {
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
	parts := strings.Split(r.AcademicYear, "/")
	if len(parts) == 2 {
		a, errA := strconv.Atoi(parts[0])
		b, errB := strconv.Atoi(parts[1])
		if errA == nil && errB == nil && b == a+1 && a >= 2000 {
			return nil
		}
	}
	return helper.Invalid("mgm_reward_config_academic_year", fmt.Sprintf("Tahun akademik %q tidak valid, contoh 2026/2027", r.AcademicYear))
}

func (r MGMRewardConfigRequest) ApplyToModel(m *model.MGMRewardConfigModel) {
	m.MGMRewardConfigAcademicYear = r.AcademicYear
	m.MGMRewardConfigRewardType = r.RewardType
	m.MGMRewardConfigTriggerEvent = r.TriggerEvent
	m.MGMRewardConfigAmount = r.Amount
	m.MGMRewardConfigDescription = r.Description
	if r.IsActive != nil {
		m.MGMRewardConfigIsActive = *r.IsActive
	}
}
