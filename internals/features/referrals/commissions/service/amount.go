package service

import (
	commissionModel "pmb_backend/internals/features/referrals/commissions/model"
	referrerModel "pmb_backend/internals/features/referrals/referrers/model"
	rewardModel "pmb_backend/internals/features/referrals/rewards/model"
)

// Resolution: nominal komisi dan asal nominalnya.
type Resolution struct {
	Amount   int64
	Source   string
	ConfigID string
}

// ResolveAmount menentukan komisi satu trigger.
//
// Trigger hanya berbayar kalau ada konfigurasi reward aktif bertipe commission:
// referrer tipe student memakai tabel MGM (per tahun akademik kandidat) lalu jatuh ke
// RewardConfig; tipe lain langsung RewardConfig. Nominal override milik referrer
// menggantikan nominal konfigurasi.
func ResolveAmount(ref referrerModel.ReferrerModel, mgm *rewardModel.MGMRewardConfigModel, cfg *rewardModel.RewardConfigModel) (Resolution, bool) {
	var res Resolution
	switch {
	case ref.ReferrerType == referrerModel.TypeStudent && mgm != nil && mgm.MGMRewardConfigIsActive &&
		mgm.MGMRewardConfigRewardType == rewardModel.RewardCommission:
		res = Resolution{Amount: mgm.MGMRewardConfigAmount, Source: commissionModel.SourceMGM, ConfigID: mgm.MGMRewardConfigID.String()}
	case cfg != nil && cfg.RewardConfigIsActive && cfg.RewardConfigRewardType == rewardModel.RewardCommission &&
		cfg.RewardConfigReferrerType == ref.ReferrerType:
		res = Resolution{Amount: cfg.RewardConfigAmount, Source: commissionModel.SourceRewardConfig, ConfigID: cfg.RewardConfigID.String()}
	default:
		return Resolution{}, false
	}

	if ref.ReferrerCommissionAmount != nil && *ref.ReferrerCommissionAmount > 0 {
		res.Amount = *ref.ReferrerCommissionAmount
		res.Source = commissionModel.SourceOverride
	}
	if res.Amount <= 0 {
		return Resolution{}, false
	}
	return res, true
}
